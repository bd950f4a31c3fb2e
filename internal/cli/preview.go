package cli

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/source"
)

var (
	previewInput    string
	previewQuestion int
	previewAt       float64
	previewOut      string
	previewScale    float64
	previewNoTimer  bool
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Сохранить один кадр клипа в PNG",
		RunE:  runPreview,
	}

	cmd.Flags().StringVar(&previewInput, "input", "", "Колода вопросов (по умолчанию: самый свежий файл в input/quiz/)")
	cmd.Flags().IntVar(&previewQuestion, "question", 1, "Номер вопроса")
	cmd.Flags().Float64Var(&previewAt, "at", 11.0, "Момент клипа в секундах")
	cmd.Flags().StringVar(&previewOut, "out", "preview.png", "Файл PNG")
	cmd.Flags().Float64Var(&previewScale, "scale", 1, "Масштаб кадра (0.5 - вдвое меньше)")
	cmd.Flags().BoolVar(&previewNoTimer, "no-timer", false, "Не загружать видео таймера")

	return cmd
}

func runPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("input") {
		cfg.InputPath = previewInput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if previewScale <= 0 {
		return fmt.Errorf("--scale должен быть > 0")
	}

	inputPath, err := resolveInput(cfg)
	if err != nil {
		return err
	}
	src, err := source.Open(inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	q, err := findQuestion(src.Questions(), previewQuestion)
	if err != nil {
		return err
	}

	builder, err := newBuilder(cmd.Context(), cfg, !previewNoTimer)
	if err != nil {
		return err
	}
	img, err := builder.Still(q, previewAt)
	if err != nil {
		return err
	}

	if err := writePNG(previewOut, scaleImage(img, previewScale)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "[+++] Кадр %.2fs вопроса %d сохранен: %s\n", previewAt, q.Number, previewOut)
	return nil
}

func findQuestion(qs []quiz.Question, number int) (quiz.Question, error) {
	for _, q := range qs {
		if q.Number == number {
			return q, nil
		}
	}
	return quiz.Question{}, fmt.Errorf("вопрос %d не найден (всего вопросов: %d)", number, len(qs))
}

// scaleImage уменьшает или увеличивает кадр фильтром Catmull-Rom.
func scaleImage(img image.Image, scale float64) image.Image {
	if scale == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
