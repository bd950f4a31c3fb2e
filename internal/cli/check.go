package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ivlev/quiz2video/internal/system"
)

var (
	checkOK   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("OK")
	checkFail = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("FAIL")
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Проверить ffmpeg, шрифт, таймер и ресурсы машины",
		RunE:  runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var errs []error
	report := func(name string, detail string, err error) {
		if err != nil {
			errs = append(errs, err)
			fmt.Fprintf(out, "%-10s %s  %v\n", name, checkFail, err)
			return
		}
		fmt.Fprintf(out, "%-10s %s  %s\n", name, checkOK, detail)
	}

	report("config", configPath, cfg.Validate())

	ffmpegPath, err := system.CheckBinary(cfg.Video.FFmpeg)
	report("ffmpeg", ffmpegPath, err)
	ffprobePath, err := system.CheckBinary("ffprobe")
	report("ffprobe", ffprobePath, err)
	if ffmpegPath != "" {
		report("encoder", system.GetBestH264Encoder(cmd.Context(), ffmpegPath), nil)
	}

	font, err := loadFont(cfg.Font)
	if err == nil {
		report("font", font.Name(), nil)
	} else {
		report("font", "", err)
	}
	timer, err := countdownPath(cfg.Countdown.Path)
	report("countdown", timer, err)

	printHost(out)
	return errors.Join(errs...)
}

func printHost(out io.Writer) {
	h := system.HostInfo()
	fmt.Fprintf(out, "%-10s %s\n", "host", h)
	fmt.Fprintf(out, "%-10s %d\n", "workers", system.RecommendWorkers(system.ClipMemory))
}
