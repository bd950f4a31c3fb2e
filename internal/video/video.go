package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/image/draw"

	"github.com/ivlev/quiz2video/internal/frame"
	"github.com/ivlev/quiz2video/internal/system"
)

// Params - параметры кодирования одного файла.
type Params struct {
	FPS     int
	Encoder string
	Quality int
	// FFmpeg - путь к бинарнику ffmpeg.
	FFmpeg string
}

type VideoEncoder interface {
	EncodeSource(ctx context.Context, src frame.Source, videoPath string, params Params) error
	Concatenate(ctx context.Context, paths []string, finalPath string, tmpDir string, params Params) error
}

type FFmpegEncoder struct{}

// DefaultQuality возвращает значение качества по умолчанию для энкодера.
func DefaultQuality(encoderName string) int {
	switch encoderName {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}

// QualityArgs - параметры качества в зависимости от энкодера.
func QualityArgs(encoderName string, quality int) ffmpeg.KwArgs {
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую на всех версиях. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return ffmpeg.KwArgs{"b:v": fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return ffmpeg.KwArgs{"cq": quality}
	default: // libx264
		return ffmpeg.KwArgs{"crf": quality, "preset": "medium"}
	}
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// BuildEncodeArgs собирает аргументы ffmpeg: raw RGBA кадры из stdin,
// аудиофрагменты как отдельные входы со сдвигом adelay.
func BuildEncodeArgs(bounds image.Rectangle, spans []frame.AudioSpan, duration float64, videoPath string, p Params) []string {
	videoIn := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"r":       p.FPS,
	})

	outArgs := ffmpeg.KwArgs{
		"t":       seconds(duration),
		"r":       p.FPS,
		"c:v":     p.Encoder,
		"pix_fmt": "yuv420p",
	}
	for k, v := range QualityArgs(p.Encoder, p.Quality) {
		outArgs[k] = v
	}

	streams := []*ffmpeg.Stream{videoIn}
	if audio := audioGraph(spans); audio != nil {
		streams = append(streams, audio)
		outArgs["c:a"] = "aac"
		outArgs["b:a"] = "192k"
	}

	return ffmpeg.Output(streams, videoPath, outArgs).OverWriteOutput().GetArgs()
}

// audioGraph сдвигает каждый фрагмент на его момент в клипе, смешивает
// фрагменты и дополняет тишиной до конца видео.
func audioGraph(spans []frame.AudioSpan) *ffmpeg.Stream {
	if len(spans) == 0 {
		return nil
	}
	var parts []*ffmpeg.Stream
	for _, s := range spans {
		delay := int(math.Round(s.At * 1000))
		in := ffmpeg.Input(s.Path, ffmpeg.KwArgs{"ss": seconds(s.Offset), "t": seconds(s.Duration)}).Audio()
		parts = append(parts, in.Filter("adelay", nil, ffmpeg.KwArgs{"delays": delay, "all": 1}))
	}
	mixed := parts[0]
	if len(parts) > 1 {
		mixed = ffmpeg.Filter(parts, "amix", nil, ffmpeg.KwArgs{"inputs": len(parts), "normalize": 0})
	}
	return mixed.Filter("apad", nil)
}

// FrameCount - число кадров источника при заданном FPS.
func FrameCount(duration float64, fps int) int {
	return int(math.Round(duration * float64(fps)))
}

func (e *FFmpegEncoder) EncodeSource(ctx context.Context, src frame.Source, videoPath string, params Params) error {
	bounds := src.Bounds()
	args := BuildEncodeArgs(bounds, frame.Spans(src), src.Duration(), videoPath, params)

	cmd := exec.CommandContext(ctx, ffmpegBin(params), args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	// Запись raw RGBA данных кадр за кадром
	if err := e.writeFrames(stdin, src, params.FPS); err != nil {
		stdin.Close()
		// Ждём выхода ffmpeg, чтобы его вывод попал в ошибку целиком
		cmd.Wait()
		return fmt.Errorf("write raw error: %w, output: %s", err, out.String())
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, out.String())
	}

	return nil
}

func (e *FFmpegEncoder) writeFrames(w io.Writer, src frame.Source, fps int) error {
	bounds := src.Bounds()
	// Буфер с нулевым началом координат: ffmpeg ждет плотно упакованные строки
	buf := system.GetImage(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	defer system.PutImage(buf)

	renderer, direct := src.(frame.Renderer)
	direct = direct && bounds.Min == image.Point{}

	n := FrameCount(src.Duration(), fps)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(fps)
		if direct {
			if err := renderer.FrameInto(buf, t); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		} else {
			img, err := src.Frame(t)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			draw.Draw(buf, buf.Rect, img, img.Bounds().Min, draw.Src)
		}
		if _, err := w.Write(buf.Pix); err != nil {
			return err
		}
	}
	return nil
}

// Concatenate склеивает готовые клипы без перекодирования (concat demuxer).
func (e *FFmpegEncoder) Concatenate(ctx context.Context, paths []string, finalPath string, tmpDir string, params Params) error {
	if len(paths) == 0 {
		return fmt.Errorf("нечего склеивать")
	}

	concatFilePath := filepath.Join(tmpDir, "inputs.txt")
	if err := WriteConcatList(concatFilePath, paths); err != nil {
		return err
	}

	args := ffmpeg.Input(concatFilePath, ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(finalPath, ffmpeg.KwArgs{"c": "copy"}).
		OverWriteOutput().
		GetArgs()

	cmd := exec.CommandContext(ctx, ffmpegBin(params), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
	}
	return nil
}

// WriteConcatList пишет список файлов для concat demuxer.
func WriteConcatList(listPath string, paths []string) error {
	f, err := os.Create(listPath)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", absPath); err != nil {
			return err
		}
	}
	return f.Close()
}

func ffmpegBin(p Params) string {
	if p.FFmpeg == "" {
		return "ffmpeg"
	}
	return p.FFmpeg
}
