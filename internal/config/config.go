package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/quiz2video/internal/effects"
	"github.com/ivlev/quiz2video/internal/layout"
	"github.com/ivlev/quiz2video/internal/scene"
)

// Переменные окружения, переопределяющие пути к ресурсам.
const (
	EnvFont      = "QUIZ2VIDEO_FONT"
	EnvCountdown = "QUIZ2VIDEO_COUNTDOWN"
	EnvFFmpeg    = "QUIZ2VIDEO_FFMPEG"
)

// Режимы сборки финального видео.
const (
	ConcatTimeline = "timeline"
	ConcatCopy     = "copy"
)

type Countdown struct {
	Path   string  `yaml:"path"`
	Trim   float64 `yaml:"trim"`
	Height int     `yaml:"height"`
	// Key - пресет хромакея: green или blue.
	Key string `yaml:"key"`
}

type Video struct {
	Encoder string `yaml:"encoder"`
	Quality int    `yaml:"quality"`
	FFmpeg  string `yaml:"ffmpeg"`
	Concat  string `yaml:"concat"`
}

type Publish struct {
	URL       string `yaml:"url"`
	Region    string `yaml:"region"`
	Profile   string `yaml:"profile"`
	PathStyle bool   `yaml:"path_style"`
	// Clips - публиковать также отдельные клипы.
	Clips bool `yaml:"clips"`
}

type Config struct {
	Version     string       `yaml:"version"`
	InputPath   string       `yaml:"input"`
	InputDir    string       `yaml:"input_dir"`
	OutputDir   string       `yaml:"output_dir"`
	Orientation string       `yaml:"orientation"`
	Workers     int          `yaml:"workers"`
	Font        string       `yaml:"font"`
	Countdown   Countdown    `yaml:"countdown"`
	Video       Video        `yaml:"video"`
	Clip        scene.Params `yaml:"clip"`
	Publish     Publish      `yaml:"publish"`
	ShowStats   bool         `yaml:"show_stats"`
	LogDir      string       `yaml:"log_dir"`

	BuildVersion string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		Version:     "1",
		InputDir:    "input/quiz",
		OutputDir:   "output",
		Orientation: "wide",
		Countdown: Countdown{
			Path:   "input/countdown/countdown.mp4",
			Trim:   11.56,
			Height: 100,
			Key:    "green",
		},
		Video: Video{
			FFmpeg: "ffmpeg",
			Concat: ConcatTimeline,
		},
		Clip:   scene.DefaultParams(),
		LogDir: "logs",
	}
}

// Load читает YAML-конфиг поверх значений по умолчанию.
// Отсутствующий файл не ошибка: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("чтение конфига %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфига %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyEnv переопределяет пути значениями из окружения.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvFont); v != "" {
		c.Font = v
	}
	if v := os.Getenv(EnvCountdown); v != "" {
		c.Countdown.Path = v
	}
	if v := os.Getenv(EnvFFmpeg); v != "" {
		c.Video.FFmpeg = v
	}
}

// ApplyDefaults заполняет нулевые поля значениями по умолчанию.
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.InputDir == "" {
		c.InputDir = d.InputDir
	}
	if c.OutputDir == "" {
		c.OutputDir = d.OutputDir
	}
	if c.Orientation == "" {
		c.Orientation = d.Orientation
	}
	if c.Countdown.Trim == 0 {
		c.Countdown.Trim = d.Countdown.Trim
	}
	if c.Countdown.Height == 0 {
		c.Countdown.Height = d.Countdown.Height
	}
	if c.Countdown.Key == "" {
		c.Countdown.Key = d.Countdown.Key
	}
	if c.Video.FFmpeg == "" {
		c.Video.FFmpeg = d.Video.FFmpeg
	}
	if c.Video.Concat == "" {
		c.Video.Concat = d.Video.Concat
	}
	if c.Clip.Duration == 0 {
		c.Clip.Duration = d.Clip.Duration
	}
	if c.Clip.HighlightStart == 0 {
		c.Clip.HighlightStart = d.Clip.HighlightStart
	}
	if c.Clip.HighlightDuration == 0 {
		c.Clip.HighlightDuration = d.Clip.HighlightDuration
	}
	if c.Clip.BlinkOn == 0 {
		c.Clip.BlinkOn = d.Clip.BlinkOn
	}
	if c.Clip.BlinkOff == 0 {
		c.Clip.BlinkOff = d.Clip.BlinkOff
	}
	if c.Clip.FPS == 0 {
		c.Clip.FPS = d.Clip.FPS
	}
	if c.Clip.TimerTrim == 0 {
		c.Clip.TimerTrim = c.Countdown.Trim
	}
	if c.Clip.Effect == "" {
		c.Clip.Effect = d.Clip.Effect
	}
	if c.LogDir == "" {
		c.LogDir = d.LogDir
	}
}

// Validate проверяет согласованность параметров.
func (c *Config) Validate() error {
	var errs []error
	if _, err := layout.ParseOrientation(c.Orientation); err != nil {
		errs = append(errs, fmt.Errorf("orientation: %w", err))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers: отрицательное значение %d", c.Workers))
	}
	if c.Clip.FPS <= 0 {
		errs = append(errs, fmt.Errorf("clip.fps: должно быть > 0"))
	}
	if c.Clip.Duration <= 0 {
		errs = append(errs, fmt.Errorf("clip.duration: должно быть > 0"))
	}
	if c.Clip.FadeIn < 0 || c.Clip.FadeIn > c.Clip.Duration {
		errs = append(errs, fmt.Errorf("clip.fade_in: %.2f вне [0, %.2f]", c.Clip.FadeIn, c.Clip.Duration))
	}
	if c.Clip.HighlightStart < 0 || c.Clip.HighlightStart+c.Clip.HighlightDuration > c.Clip.Duration+1e-9 {
		errs = append(errs, fmt.Errorf("clip.highlight: окно %.2f+%.2f выходит за клип %.2f",
			c.Clip.HighlightStart, c.Clip.HighlightDuration, c.Clip.Duration))
	}
	if _, err := effects.FromName(c.Clip.Effect, c.Clip.FadeIn); err != nil {
		errs = append(errs, fmt.Errorf("clip.effect: %w", err))
	}
	if c.Clip.BlinkOn < 0 || c.Clip.BlinkOff < 0 {
		errs = append(errs, fmt.Errorf("clip.blink: отрицательная длительность фазы"))
	}
	if c.Countdown.Trim <= 0 || c.Countdown.Height <= 0 {
		errs = append(errs, fmt.Errorf("countdown: trim и height должны быть > 0"))
	}
	switch c.Video.Concat {
	case ConcatTimeline, ConcatCopy:
	default:
		errs = append(errs, fmt.Errorf("video.concat: ожидается %s или %s, получено %q", ConcatTimeline, ConcatCopy, c.Video.Concat))
	}
	if c.Publish.URL != "" && !strings.HasPrefix(c.Publish.URL, "s3://") {
		errs = append(errs, fmt.Errorf("publish.url: ожидается s3://bucket/prefix, получено %q", c.Publish.URL))
	}
	return errors.Join(errs...)
}
