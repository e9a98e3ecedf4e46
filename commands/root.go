package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeu5/pusht-hirl/game"
)

var (
	configPath  string
	saveDir     string
	format      string
	numEpisodes int
	logLevel    string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "pusht-hirl",
		Short: "Human-in-the-loop trajectory collection for the PushT task",
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "", "Directory to save trajectory data in")
	rootCommand.PersistentFlags().StringVarP(&format, "format", "f", "", "Save format (gob, bolt, json, csv, bundle)")
	rootCommand.PersistentFlags().IntVarP(&numEpisodes, "episodes", "e", 0, "Number of episodes to collect")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	// adding the subcommands here
	rootCommand.AddCommand(CollectCommand())
	rootCommand.AddCommand(ReplayCommand())
	rootCommand.AddCommand(StatsCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(UploadCommand())
	return rootCommand
}

// loadConfig layers the persistent flags over the config file.
func loadConfig() (game.Config, error) {
	cfg, err := game.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if saveDir != "" {
		cfg.Data.SaveDir = saveDir
	}
	if format != "" {
		cfg.Data.Format = format
	}
	if numEpisodes > 0 {
		cfg.Data.NumEpisodes = numEpisodes
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
