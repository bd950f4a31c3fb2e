package system

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// Расширения поддерживаемых колод и видео таймера.
var (
	DeckExtensions  = []string{".txt", ".yaml", ".yml", ".pdf"}
	VideoExtensions = []string{".mp4", ".mov", ".webm", ".mkv"}
)

func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	} else {
		fmt.Printf("[*] Системный лимит открытых файлов увеличен до %d\n", rLimit.Cur)
	}
}

// FindLatestDeck возвращает самый свежий файл с вопросами в папке.
func FindLatestDeck(dir string) (string, error) {
	path, err := findLatest(dir, DeckExtensions)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("в папке %s не найдено файлов с вопросами", dir)
	}
	return path, nil
}

// FindLatestVideo возвращает самое свежее видео в папке (таймер обратного отсчета).
func FindLatestVideo(dir string) (string, error) {
	path, err := findLatest(dir, VideoExtensions)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("в папке %s не найдено видео-файлов", dir)
	}
	return path, nil
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExtension(f.Name(), extensions) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	return latestFile, nil
}

// GetBestH264Encoder выбирает аппаратный энкодер, если ffmpeg его поддерживает.
func GetBestH264Encoder(ctx context.Context, ffmpegPath string) string {
	// Приоритеты:
	// 1. MacOS (VideoToolbox)
	// 2. NVIDIA (NVENC)
	// 3. Software (libx264)
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(list string) string {
	for _, name := range []string{"h264_videotoolbox", "h264_nvenc"} {
		if strings.Contains(list, name) {
			return name
		}
	}
	return "libx264"
}

// CheckBinary проверяет, что бинарник доступен, и возвращает полный путь.
func CheckBinary(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s не найден в PATH: %w", name, err)
	}
	return path, nil
}
