package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/quiz2video/internal/config"
	"github.com/ivlev/quiz2video/internal/frame"
	"github.com/ivlev/quiz2video/internal/logx"
	"github.com/ivlev/quiz2video/internal/manifest"
	"github.com/ivlev/quiz2video/internal/publish"
	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/scene"
	"github.com/ivlev/quiz2video/internal/source"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/timeline"
	"github.com/ivlev/quiz2video/internal/tui"
	"github.com/ivlev/quiz2video/internal/video"
)

// Имена выходных файлов.
const (
	FinalName    = "final_quiz.mp4"
	clipNameTmpl = "quiz_clip%d.mp4"
)

// Reporter получает события прогресса по клипам.
type Reporter interface {
	Clip(number int, status, detail string)
}

// LogReporter пишет прогресс в лог построчно.
type LogReporter struct{}

func (LogReporter) Clip(number int, status, detail string) {
	switch status {
	case tui.StatusError:
		logx.Warnf("Клип %d: %s", number, detail)
	case tui.StatusRendered:
		logx.Stepf("Ready: клип %d %s", number, detail)
	case tui.StatusPublished:
		logx.Stepf("Published: клип %d %s", number, detail)
	}
}

type VideoProject struct {
	Config    *config.Config
	Source    source.Source
	Builder   *scene.Builder
	Encoder   video.VideoEncoder
	Publisher *publish.Publisher
	Reporter  Reporter

	// RunID - ID запуска для манифеста. Пустой: новый uuid.
	RunID string
	// OutputDir - папка запуска. Пустая: output/<колода>_<время>.
	OutputDir string
}

func NewVideoProject(cfg *config.Config, src source.Source, b *scene.Builder, ve video.VideoEncoder) *VideoProject {
	return &VideoProject{
		Config:   cfg,
		Source:   src,
		Builder:  b,
		Encoder:  ve,
		Reporter: LogReporter{},
	}
}

// clipResult - итог сборки одного вопроса.
type clipResult struct {
	question quiz.Question
	source   *timeline.Composite
	path     string
	err      error
}

func (p *VideoProject) params() video.Params {
	return video.Params{
		FPS:     p.Config.Clip.FPS,
		Encoder: p.Config.Video.Encoder,
		Quality: p.Config.Video.Quality,
		FFmpeg:  p.Config.Video.FFmpeg,
	}
}

// Workers - число параллельно собираемых клипов.
func (p *VideoProject) Workers(clips int) int {
	n := p.Config.Workers
	if n <= 0 {
		n = system.RecommendWorkers(system.ClipMemory)
	}
	return max(1, min(n, clips))
}

// Run собирает все клипы колоды, финальное видео и манифест.
func (p *VideoProject) Run(ctx context.Context) (*manifest.Manifest, error) {
	startTime := time.Now()

	questions := p.Source.Questions()
	if len(questions) == 0 {
		return nil, fmt.Errorf("колода %s: %w", p.Source.Name(), timeline.ErrEmptyInput)
	}

	outDir := p.OutputDir
	if outDir == "" {
		outDir = manifest.RunDir(p.Config.OutputDir, p.Source.Name(), startTime)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}
	tempDir, err := os.MkdirTemp("", "quiz2video_")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	params := p.params()
	l, err := p.Builder.Layout()
	if err != nil {
		return nil, err
	}
	workers := p.Workers(len(questions))

	logx.Plain("--- [PROJECT: QUIZ ENGINE] ---\n")
	logx.Infof("Источник: %s | Вопросов: %d", p.Source.Name(), len(questions))
	logx.Infof("Разрешение: %dx%d @ %d FPS | Энкодер: %s | Потоков: %d", l.Canvas.Dx(), l.Canvas.Dy(), params.FPS, params.Encoder, workers)
	logx.Plain("-----------------------------\n")

	// 1. Клипы: сборка композиции и кодирование, параллельно
	renderStart := time.Now()
	results := make([]clipResult, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, q := range questions {
		g.Go(func() error {
			results[i] = p.renderClip(gctx, q, filepath.Join(outDir, fmt.Sprintf(clipNameTmpl, i+1)), params)
			// Ошибка клипа не прерывает запуск, отмена контекста - прерывает
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	renderTime := time.Since(renderStart)

	m := manifest.New(p.Source.Name())
	if p.RunID != "" {
		m.RunID = p.RunID
	}
	m.Build = p.Config.BuildVersion
	m.Orientation = p.Builder.Orientation.String()
	m.Width, m.Height = l.Canvas.Dx(), l.Canvas.Dy()
	m.FPS = params.FPS
	m.Encoder = params.Encoder

	var composites []*timeline.Composite
	var paths []string
	for _, r := range results {
		c := manifest.Clip{Number: r.question.Number, Question: r.question.Text, Answer: r.question.Answer}
		if r.err != nil {
			c.Error = r.err.Error()
		} else {
			c.File = filepath.Base(r.path)
			c.Start = m.Duration
			c.Duration = r.source.Duration()
			m.Duration += c.Duration
			composites = append(composites, r.source)
			paths = append(paths, r.path)
		}
		m.Clips = append(m.Clips, c)
	}
	if len(composites) == 0 {
		return m, fmt.Errorf("ни один клип не собран: %w", timeline.ErrEmptyInput)
	}
	if failed := m.Failed(); failed > 0 {
		logx.Warnf("Пропущено клипов: %d из %d", failed, len(results))
	}

	// 2. Финальное видео
	logx.Infof("Сборка финального видео (%s)...", p.Config.Video.Concat)
	concatStart := time.Now()
	finalPath := filepath.Join(outDir, FinalName)
	if err := p.concatenate(ctx, composites, paths, finalPath, tempDir, params); err != nil {
		return m, fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	concatTime := time.Since(concatStart)
	m.Final = FinalName

	manifestPath := filepath.Join(outDir, manifest.FileName)
	if err := manifest.Write(m, manifestPath); err != nil {
		return m, fmt.Errorf("запись манифеста: %w", err)
	}

	// 3. Публикация
	if p.Publisher != nil {
		if err := p.publish(ctx, m, outDir, finalPath); err != nil {
			return m, err
		}
		if err := manifest.Write(m, manifestPath); err != nil {
			return m, fmt.Errorf("запись манифеста: %w", err)
		}
	}

	logx.Successf("Успех! Видео сохранено: %s", finalPath)
	if p.Config.ShowStats {
		p.report(len(composites), m.Duration, params.FPS, time.Since(startTime), renderTime, concatTime)
	}
	return m, nil
}

func (p *VideoProject) renderClip(ctx context.Context, q quiz.Question, path string, params video.Params) clipResult {
	res := clipResult{question: q, path: path}
	p.Reporter.Clip(q.Number, tui.StatusBuilding, "")
	c, err := p.Builder.Build(q)
	if err != nil {
		res.err = err
		p.Reporter.Clip(q.Number, tui.StatusError, err.Error())
		return res
	}
	res.source = c

	p.Reporter.Clip(q.Number, tui.StatusEncoding, fmt.Sprintf("%d кадров", video.FrameCount(c.Duration(), params.FPS)))
	if err := p.Encoder.EncodeSource(ctx, c, path, params); err != nil {
		res.err = err
		p.Reporter.Clip(q.Number, tui.StatusError, err.Error())
		return res
	}
	p.Reporter.Clip(q.Number, tui.StatusRendered, filepath.Base(path))
	return res
}

func (p *VideoProject) concatenate(ctx context.Context, composites []*timeline.Composite, paths []string, finalPath, tempDir string, params video.Params) error {
	if p.Config.Video.Concat == config.ConcatCopy {
		return p.Encoder.Concatenate(ctx, paths, finalPath, tempDir, params)
	}
	clips := make([]frame.Source, len(composites))
	for i, c := range composites {
		clips[i] = c
	}
	tl, err := timeline.Concatenate(clips...)
	if err != nil {
		return err
	}
	return p.Encoder.EncodeSource(ctx, tl, finalPath, params)
}

func (p *VideoProject) publish(ctx context.Context, m *manifest.Manifest, outDir, finalPath string) error {
	runDir := filepath.Base(outDir)
	logx.Infof("Публикация в хранилище...")

	url, err := p.Publisher.Upload(ctx, runDir, finalPath)
	if err != nil {
		return fmt.Errorf("публикация: %w", err)
	}
	m.FinalURL = url

	if p.Config.Publish.Clips {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for i := range m.Clips {
			c := &m.Clips[i]
			if c.File == "" {
				continue
			}
			g.Go(func() error {
				p.Reporter.Clip(c.Number, tui.StatusPublishing, "")
				u, err := p.Publisher.Upload(gctx, runDir, filepath.Join(outDir, c.File))
				if err != nil {
					p.Reporter.Clip(c.Number, tui.StatusError, err.Error())
					return err
				}
				// Каждая горутина пишет только свой элемент m.Clips
				c.URL = u
				p.Reporter.Clip(c.Number, tui.StatusPublished, u)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("публикация клипов: %w", err)
		}
	}
	logx.Successf("Опубликовано: %s", url)
	return nil
}

func (p *VideoProject) report(clips int, duration float64, fps int, total, render, concat time.Duration) {
	frames := video.FrameCount(duration, fps)
	effective := float64(frames) / total.Seconds()
	logx.Plain(fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Clips (build+encode): %.2fs\n"+
			"Final video: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, system.HostInfo(), total.Seconds(), render.Seconds(), concat.Seconds(), effective,
	))

	// Логирование в файл
	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Clips: %d | Total: %.2fs | Clips: %.2fs | Final: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		p.Source.Name(),
		clips,
		total.Seconds(),
		render.Seconds(),
		concat.Seconds(),
		effective,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		f.WriteString(logEntry)
		f.Close()
	} else {
		logx.Warnf("Не удалось записать benchmark.log: %v", err)
	}
}
