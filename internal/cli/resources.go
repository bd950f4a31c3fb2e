package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/quiz2video/internal/card"
	"github.com/ivlev/quiz2video/internal/chroma"
	"github.com/ivlev/quiz2video/internal/config"
	"github.com/ivlev/quiz2video/internal/countdown"
	"github.com/ivlev/quiz2video/internal/frame"
	"github.com/ivlev/quiz2video/internal/layout"
	"github.com/ivlev/quiz2video/internal/logx"
	"github.com/ivlev/quiz2video/internal/scene"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/text"
)

func loadFont(path string) (*text.Font, error) {
	if path == "" {
		logx.Warnf("Шрифт не задан (%s), используется Go Regular", config.EnvFont)
		return text.DefaultFont(), nil
	}
	return text.LoadFont(path)
}

// countdownPath возвращает путь к видео таймера. Если заданного файла нет,
// берется самое свежее видео из той же папки.
func countdownPath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("%w: countdown %s: %v", frame.ErrResourceLoad, path, err)
	}
	latest, err := system.FindLatestVideo(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("%w: countdown %s: %v", frame.ErrResourceLoad, path, err)
	}
	logx.Infof("Выбран таймер: %s", latest)
	return latest, nil
}

// loadTimer декодирует таймер и оборачивает его хромакеем.
func loadTimer(ctx context.Context, cfg *config.Config) (frame.Source, error) {
	path, err := countdownPath(cfg.Countdown.Path)
	if err != nil {
		return nil, err
	}
	keyer, err := chroma.NewKeyer(cfg.Countdown.Key)
	if err != nil {
		return nil, err
	}

	opts := countdown.DefaultOptions()
	opts.Trim = cfg.Countdown.Trim
	opts.Height = cfg.Countdown.Height
	opts.FPS = cfg.Clip.FPS
	opts.FFmpeg = cfg.Video.FFmpeg

	clip, err := countdown.Load(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	logx.Infof("Таймер: %s, %d кадров %dx%d", filepath.Base(path), clip.Len(), clip.Bounds().Dx(), clip.Bounds().Dy())
	return chroma.NewSource(clip, keyer), nil
}

// newBuilder загружает шрифт и таймер один раз на запуск.
// withTimer=false собирает клипы без таймера (превью, отладка макета).
func newBuilder(ctx context.Context, cfg *config.Config, withTimer bool) (*scene.Builder, error) {
	o, err := layout.ParseOrientation(cfg.Orientation)
	if err != nil {
		return nil, err
	}
	font, err := loadFont(cfg.Font)
	if err != nil {
		return nil, err
	}

	var timer frame.Source
	if withTimer {
		timer, err = loadTimer(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	painter := card.Painter{Font: font, Style: card.DefaultStyle()}
	return scene.NewBuilder(o, painter, timer, cfg.Clip), nil
}
