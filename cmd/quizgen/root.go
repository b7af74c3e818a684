package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"quizforge/internal/app"
	"quizforge/internal/config"
	"quizforge/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// textGenFactory overrides the configured model backend; nil selects
// llm.NewTextGenerator.
var textGenFactory app.TextGeneratorFactory

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "quizgen",
		Short:         "Generate, check and manage coding quizzes",
		Long:          "quizgen generates coding quizzes with a language model, validates quiz documents and manages the quiz store.",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "Directory containing config.yaml (default . and ./configs)")
	root.PersistentFlags().String("env-file", ".env", "Environment file loaded before configuration")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newPurgeCacheCmd())
	return root
}

// loadConfig reads the env file and configuration. Logs go to stderr so
// documents written to stdout stay clean.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	var paths []string
	if dir, _ := cmd.Flags().GetString("config"); dir != "" {
		paths = append(paths, dir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, err
	}
	cfg.Logger.Output = "stderr"
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

func buildContainer(cmd *cobra.Command) (*app.Container, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.Build(commandContext(cmd), cfg, logger.Get(), textGenFactory)
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
