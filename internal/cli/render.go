package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ivlev/quiz2video/internal/config"
	"github.com/ivlev/quiz2video/internal/engine"
	"github.com/ivlev/quiz2video/internal/logx"
	"github.com/ivlev/quiz2video/internal/manifest"
	"github.com/ivlev/quiz2video/internal/publish"
	"github.com/ivlev/quiz2video/internal/source"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/tui"
	"github.com/ivlev/quiz2video/internal/video"
)

var (
	renderInput       string
	renderOrientation string
	renderFPS         int
	renderWorkers     int
	renderOutput      string
	renderConcat      string
	renderPublish     string
	renderQuality     int
	renderStats       bool
	renderNoProgress  bool
)

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Собрать клипы по всем вопросам и финальное видео",
		RunE:  runRender,
	}

	cmd.Flags().StringVar(&renderInput, "input", "", "Колода вопросов .txt/.yaml/.pdf (по умолчанию: самый свежий файл в input/quiz/)")
	cmd.Flags().StringVar(&renderOrientation, "orientation", "wide", "Ориентация: wide (1280x720) или tall (720x1280)")
	cmd.Flags().IntVar(&renderFPS, "fps", 24, "FPS")
	cmd.Flags().IntVar(&renderWorkers, "workers", 0, "Потоки (0 - по числу CPU и свободной памяти)")
	cmd.Flags().StringVar(&renderOutput, "output", "output", "Корневая папка результатов")
	cmd.Flags().StringVar(&renderConcat, "concat", config.ConcatTimeline, "Сборка финального видео: timeline или copy")
	cmd.Flags().StringVar(&renderPublish, "publish", "", "Опубликовать результат: s3://bucket/prefix")
	cmd.Flags().IntVar(&renderQuality, "quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	cmd.Flags().BoolVar(&renderStats, "stats", false, "Показать отчет о производительности")
	cmd.Flags().BoolVar(&renderNoProgress, "no-progress", false, "Отключить интерактивный прогресс")

	return cmd
}

// applyRenderFlags переносит в конфиг только явно заданные флаги.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputPath = renderInput
	}
	if flags.Changed("orientation") {
		cfg.Orientation = renderOrientation
	}
	if flags.Changed("fps") {
		cfg.Clip.FPS = renderFPS
	}
	if flags.Changed("workers") {
		cfg.Workers = renderWorkers
	}
	if flags.Changed("output") {
		cfg.OutputDir = renderOutput
	}
	if flags.Changed("concat") {
		cfg.Video.Concat = renderConcat
	}
	if flags.Changed("publish") {
		cfg.Publish.URL = renderPublish
	}
	if flags.Changed("quality") {
		cfg.Video.Quality = renderQuality
	}
	if flags.Changed("stats") {
		cfg.ShowStats = renderStats
	}
}

// resolveInput возвращает колоду из конфига или самую свежую в InputDir.
func resolveInput(cfg *config.Config) (string, error) {
	if cfg.InputPath != "" {
		return cfg.InputPath, nil
	}
	if err := os.MkdirAll(cfg.InputDir, 0755); err != nil {
		return "", err
	}
	latest, err := system.FindLatestDeck(cfg.InputDir)
	if err != nil {
		return "", fmt.Errorf("%v. Положите колоду в %s/", err, cfg.InputDir)
	}
	logx.Infof("Выбран файл: %s", latest)
	return latest, nil
}

// resolveEncoder выбирает энкодер и качество, если они не заданы.
func resolveEncoder(ctx context.Context, cfg *config.Config) {
	if cfg.Video.Encoder == "" {
		cfg.Video.Encoder = system.GetBestH264Encoder(ctx, cfg.Video.FFmpeg)
		if cfg.Video.Encoder != "libx264" {
			logx.Infof("Обнаружено аппаратное ускорение: %s", cfg.Video.Encoder)
		}
	}
	if cfg.Video.Quality == 0 {
		cfg.Video.Quality = video.DefaultQuality(cfg.Video.Encoder)
	}
}

func runRender(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRenderFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	runID := uuid.NewString()
	logger, closer, err := logx.New(cfg.LogDir, runID)
	if err != nil {
		logx.Warnf("Лог-файл недоступен: %v", err)
	} else {
		defer closer.Close()
		logx.SetFile(logger)
		defer logx.SetFile(nil)
	}

	inputPath, err := resolveInput(cfg)
	if err != nil {
		return err
	}
	src, err := source.Open(inputPath)
	if err != nil {
		return fmt.Errorf("ошибка инициализации источника: %w", err)
	}
	defer src.Close()

	builder, err := newBuilder(ctx, cfg, true)
	if err != nil {
		return err
	}
	resolveEncoder(ctx, cfg)

	project := engine.NewVideoProject(cfg, src, builder, &video.FFmpegEncoder{})
	project.RunID = runID
	if cfg.Publish.URL != "" {
		pub, err := publish.NewS3(ctx, cfg.Publish.URL, publish.Options{
			Region:    cfg.Publish.Region,
			Profile:   cfg.Publish.Profile,
			PathStyle: cfg.Publish.PathStyle,
		})
		if err != nil {
			return err
		}
		project.Publisher = pub
	}

	m, err := runProject(ctx, cmd, project, src)
	if err != nil {
		return fmt.Errorf("ошибка проекта: %w", err)
	}

	logx.Successf("Успех! Клипов: %d, пропущено: %d, длительность %.2fs", len(m.Rendered()), m.Failed(), m.Duration)
	return nil
}

// runProject запускает рендер с таблицей прогресса в терминале или с
// построчным логом в остальных случаях.
func runProject(ctx context.Context, cmd *cobra.Command, project *engine.VideoProject, src source.Source) (*manifest.Manifest, error) {
	out := cmd.OutOrStdout()
	if tui.DetectMode(out, renderNoProgress) == tui.ModePlain {
		return project.Run(ctx)
	}

	model := tui.NewProgressModel(fmt.Sprintf("Колода: %s", src.Name()))
	for _, q := range src.Questions() {
		model.AddClip(q.Number, q.Text)
	}

	logx.SetQuiet(true)
	defer logx.SetQuiet(false)

	var m *manifest.Manifest
	err := tui.RunWithWork(out, model, func(send func(tea.Msg)) error {
		project.Reporter = tui.NewClipReporter(send)
		var err error
		m, err = project.Run(ctx)
		return err
	})
	return m, err
}
