package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/wader/osleaktest"

	"github.com/ivlev/quiz2video/internal/frame"
	"github.com/ivlev/quiz2video/internal/timeline"
)

func TestQualityArgs(t *testing.T) {
	tests := []struct {
		encoder string
		quality int
		key     string
		want    string
	}{
		{"libx264", 23, "crf", "23"},
		{"h264_nvenc", 28, "cq", "28"},
		{"h264_videotoolbox", 75, "b:v", "7500k"},
	}
	for _, tt := range tests {
		args := QualityArgs(tt.encoder, tt.quality)
		v, ok := args[tt.key]
		if !ok {
			t.Errorf("%s: missing %s in %v", tt.encoder, tt.key, args)
			continue
		}
		if got := fmt.Sprint(v); got != tt.want {
			t.Errorf("%s: %s = %s, want %s", tt.encoder, tt.key, got, tt.want)
		}
	}
	if DefaultQuality("libx264") != 23 || DefaultQuality("h264_nvenc") != 28 || DefaultQuality("h264_videotoolbox") != 75 {
		t.Error("unexpected default quality")
	}
}

func TestBuildEncodeArgsSilent(t *testing.T) {
	p := Params{FPS: 24, Encoder: "libx264", Quality: 23}
	args := strings.Join(BuildEncodeArgs(image.Rect(0, 0, 1280, 720), nil, 13, "clip.mp4", p), " ")
	for _, want := range []string{"-f rawvideo", "-pix_fmt rgba", "-s 1280x720", "-i pipe:", "-t 13.000", "-c:v libx264", "-crf 23", "-pix_fmt yuv420p", "clip.mp4", "-y"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if strings.Contains(args, "adelay") || strings.Contains(args, "c:a") {
		t.Errorf("silent clip should have no audio graph: %q", args)
	}
}

func TestBuildEncodeArgsAudio(t *testing.T) {
	p := Params{FPS: 24, Encoder: "h264_nvenc", Quality: 28}
	spans := []frame.AudioSpan{
		{Track: frame.Track{Path: "timer.mp4", Duration: 11.56}, At: 0},
		{Track: frame.Track{Path: "timer.mp4", Duration: 11.56}, At: 13},
	}
	args := strings.Join(BuildEncodeArgs(image.Rect(0, 0, 720, 1280), spans, 26, "final.mp4", p), " ")
	for _, want := range []string{"-i timer.mp4", "-ss 0.000", "-t 11.560", "adelay", "delays=13000", "amix", "apad", "-c:a aac", "-cq 28", "-t 26.000"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}

	single := strings.Join(BuildEncodeArgs(image.Rect(0, 0, 720, 1280), spans[:1], 13, "clip.mp4", p), " ")
	if strings.Contains(single, "amix") {
		t.Errorf("single span should not be mixed: %q", single)
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		d    float64
		fps  int
		want int
	}{
		{13, 24, 312},
		{39, 24, 936},
		{0.5, 30, 15},
		{11.56, 24, 277},
	}
	for _, tt := range tests {
		if got := FrameCount(tt.d, tt.fps); got != tt.want {
			t.Errorf("FrameCount(%v,%d) = %d, want %d", tt.d, tt.fps, got, tt.want)
		}
	}
}

func TestWriteFrames(t *testing.T) {
	r := image.Rect(0, 0, 4, 2)
	c, err := timeline.NewComposite(r, 1, timeline.Layer{Source: frame.NewStill(frame.Solid(r, color.White), 1)})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := (&FFmpegEncoder{}).writeFrames(&buf, c, 10); err != nil {
		t.Fatalf("writeFrames failed: %v", err)
	}
	if buf.Len() != 10*4*2*4 {
		t.Errorf("wrote %d bytes, want %d", buf.Len(), 10*4*2*4)
	}
	if buf.Bytes()[0] != 255 {
		t.Error("expected white pixels")
	}

	// Sources without FrameInto go through Frame.
	buf.Reset()
	if err := (&FFmpegEncoder{}).writeFrames(&buf, frame.NewStill(frame.Solid(r, color.Black), 0.5), 10); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 5*4*2*4 || buf.Bytes()[3] != 255 {
		t.Errorf("wrote %d bytes", buf.Len())
	}
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "inputs.txt")
	paths := []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4")}
	if err := WriteConcatList(list, paths); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(list)
	if err != nil {
		t.Fatal(err)
	}
	want := "file '" + paths[0] + "'\nfile '" + paths[1] + "'\n"
	if string(data) != want {
		t.Errorf("list = %q, want %q", data, want)
	}
}

// leakChecks проверяет, что ffmpeg не оставил горутин и открытых файлов.
func leakChecks(t *testing.T) func() {
	leakFn := leaktest.CheckTimeout(t, 5*time.Second)
	osLeakFn := osleaktest.Check(t)
	return func() {
		leakFn()
		osLeakFn()
	}
}

func TestEncodeSource(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}
	defer leakChecks(t)()

	r := image.Rect(0, 0, 64, 36)
	c, err := timeline.NewComposite(r, 0.5, timeline.Layer{Source: frame.NewStill(frame.Solid(r, color.White), 0.5)})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "clip.mp4")
	p := Params{FPS: 24, Encoder: "libx264", Quality: 23}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := (&FFmpegEncoder{}).EncodeSource(ctx, c, out, p); err != nil {
		t.Fatalf("EncodeSource failed: %v", err)
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		t.Fatalf("output not written: %v", err)
	}

	final := filepath.Join(t.TempDir(), "final.mp4")
	if err := (&FFmpegEncoder{}).Concatenate(ctx, []string{out, out}, final, t.TempDir(), p); err != nil {
		t.Fatalf("Concatenate failed: %v", err)
	}
}

var errBrokenFrame = errors.New("broken frame")

type brokenSource struct{}

func (brokenSource) Duration() float64                  { return 1 }
func (brokenSource) Bounds() image.Rectangle            { return image.Rect(0, 0, 16, 16) }
func (brokenSource) Frame(float64) (image.Image, error) { return nil, errBrokenFrame }

func TestEncodeSourceFrameErrorKeepsOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs /bin/sh")
	}
	// Stand-in ffmpeg: reports an error and drains stdin.
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\necho \"Unknown encoder 'no_such_encoder'\" >&2\ncat >/dev/null\nexit 1\n"
	if err := os.WriteFile(bin, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	p := Params{FPS: 24, Encoder: "no_such_encoder", FFmpeg: bin}
	err := (&FFmpegEncoder{}).EncodeSource(context.Background(), brokenSource{}, filepath.Join(t.TempDir(), "clip.mp4"), p)
	if !errors.Is(err, errBrokenFrame) {
		t.Fatalf("EncodeSource error = %v, want frame error", err)
	}
	if !strings.Contains(err.Error(), "Unknown encoder 'no_such_encoder'") {
		t.Errorf("ffmpeg output missing from error: %v", err)
	}
}
