// Package countdown loads the timer video that sits above the question.
// Frames are decoded once at clip resolution and kept in memory.
package countdown

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os/exec"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ivlev/quiz2video/internal/frame"
)

// Info describes the countdown file as reported by ffprobe.
type Info struct {
	Width    int
	Height   int
	Duration float64
	HasAudio bool
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
		Duration  string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe reads the geometry and duration of a video file.
func Probe(path string) (Info, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: ffprobe %s: %v", frame.ErrResourceLoad, path, err)
	}
	return parseProbe(out)
}

func parseProbe(out string) (Info, error) {
	var p probeOutput
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		return Info{}, fmt.Errorf("%w: ffprobe output: %v", frame.ErrResourceLoad, err)
	}

	var info Info
	for _, s := range p.Streams {
		switch s.CodecType {
		case "video":
			if info.Width == 0 {
				info.Width, info.Height = s.Width, s.Height
				info.Duration, _ = strconv.ParseFloat(s.Duration, 64)
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if d, err := strconv.ParseFloat(p.Format.Duration, 64); err == nil && d > 0 {
		info.Duration = d
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("%w: no video stream", frame.ErrResourceLoad)
	}
	return info, nil
}

// Options controls decoding.
type Options struct {
	// Trim keeps only the first Trim seconds.
	Trim float64
	// Height is the target height; width follows the aspect ratio.
	Height int
	FPS    int
	FFmpeg string
}

func DefaultOptions() Options {
	return Options{Trim: 11.56, Height: 100, FPS: 24, FFmpeg: "ffmpeg"}
}

// ScaledWidth returns the width of a w x h frame scaled to height h2.
func ScaledWidth(w, h, h2 int) int {
	return int(float64(w) * float64(h2) / float64(h))
}

// DecodeArgs builds the ffmpeg arguments that dump rgb24 frames to stdout.
func DecodeArgs(path string, w, h int, o Options) []string {
	in := ffmpeg.Input(path, ffmpeg.KwArgs{"t": strconv.FormatFloat(o.Trim, 'f', 3, 64)}).Video()
	scaled := in.
		Filter("scale", ffmpeg.Args{strconv.Itoa(w), strconv.Itoa(h)}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(o.FPS)})
	return scaled.
		Output("pipe:", ffmpeg.KwArgs{"f": "rawvideo", "pix_fmt": "rgb24"}).
		GetArgs()
}

// Clip is a decoded countdown. It is safe for concurrent use.
type Clip struct {
	frames []*frame.RGB
	fps    float64
	bounds image.Rectangle
	audio  []frame.AudioSpan
}

// NewClip wraps already decoded frames. All frames must share one size.
func NewClip(frames []*frame.RGB, fps float64, audio []frame.AudioSpan) (*Clip, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: countdown has no frames", frame.ErrResourceLoad)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("%w: fps %v", frame.ErrResourceLoad, fps)
	}
	b := frames[0].Rect
	for i, f := range frames {
		if f.Rect != b || !f.Valid() {
			return nil, fmt.Errorf("%w: frame %d is malformed", frame.ErrResourceLoad, i)
		}
	}
	return &Clip{frames: frames, fps: fps, bounds: b, audio: audio}, nil
}

// Load decodes the first o.Trim seconds of path.
func Load(ctx context.Context, path string, o Options) (*Clip, error) {
	info, err := Probe(path)
	if err != nil {
		return nil, err
	}
	if o.Trim <= 0 || (info.Duration > 0 && info.Duration < o.Trim) {
		o.Trim = info.Duration
	}
	if o.Trim <= 0 {
		return nil, fmt.Errorf("%w: %s has no duration", frame.ErrResourceLoad, path)
	}

	h := o.Height
	w := ScaledWidth(info.Width, info.Height, h)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: bad target size %dx%d", frame.ErrResourceLoad, w, h)
	}

	bin := o.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, DecodeArgs(path, w, h, o)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v, output: %s", frame.ErrResourceLoad, path, err, stderr.String())
	}

	frames := Split(stdout.Bytes(), w, h)
	var audio []frame.AudioSpan
	if info.HasAudio {
		audio = []frame.AudioSpan{{Track: frame.Track{Path: path, Duration: o.Trim}}}
	}
	return NewClip(frames, float64(o.FPS), audio)
}

// Split cuts a raw rgb24 dump into frames. A trailing partial frame is dropped.
func Split(raw []byte, w, h int) []*frame.RGB {
	size := w * h * 3
	if size <= 0 {
		return nil
	}
	frames := make([]*frame.RGB, 0, len(raw)/size)
	for off := 0; off+size <= len(raw); off += size {
		frames = append(frames, frame.WrapRGB(raw[off:off+size:off+size], w, h))
	}
	return frames
}

func (c *Clip) Duration() float64       { return float64(len(c.frames)) / c.fps }
func (c *Clip) Bounds() image.Rectangle { return c.bounds }
func (c *Clip) Len() int                { return len(c.frames) }

// Frame returns frame floor(t*fps), clamped to the last frame.
func (c *Clip) Frame(t float64) (image.Image, error) {
	i := int(math.Floor(t * c.fps))
	if i < 0 {
		i = 0
	}
	if i >= len(c.frames) {
		i = len(c.frames) - 1
	}
	return c.frames[i], nil
}

func (c *Clip) AudioSpans() []frame.AudioSpan {
	out := make([]frame.AudioSpan, len(c.audio))
	copy(out, c.audio)
	return out
}
