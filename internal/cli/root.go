package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ivlev/quiz2video/internal/config"
)

var (
	configPath   string
	buildVersion = "dev"
)

// Execute runs the root cobra command.
func Execute(version string) {
	if version != "" {
		buildVersion = version
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "quiz2video",
		Short:         "Рендер видео-викторин из колоды вопросов",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env не обязателен
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "quiz2video.yaml", "Путь к YAML-конфигу")

	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newLayoutCmd())
	cmd.AddCommand(newCheckCmd())

	return cmd
}

// loadConfig читает конфиг и переменные окружения. Флаги команды
// применяются поверх, после чего вызывается Validate.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	cfg.BuildVersion = buildVersion
	return cfg, nil
}
