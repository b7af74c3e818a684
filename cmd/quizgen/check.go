package main

import (
	"fmt"
	"io"
	"os"

	"quizforge/internal/dto"
	"quizforge/internal/quizgen"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Validate a quiz document without storing it",
		Long:  "check runs a quiz document through the same repair and recovery as model output and reports what would be dropped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			result, err := quizgen.ImportDocument(data, quizgen.Fallbacks{Topic: "imported quiz"})
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s: %q, %d questions, %s\n", args[0], result.Quiz.Title, len(result.Quiz.Questions), result.Quiz.Difficulty)
			warnings := make([]dto.RecoveryWarning, 0, len(result.Warnings))
			for _, wn := range result.Warnings {
				warnings = append(warnings, dto.RecoveryWarning{QuestionIndex: wn.QuestionIndex, Reason: wn.Reason})
			}
			printWarnings(w, warnings)
			return nil
		},
	}
}

// readInput reads path, or r when path is "-".
func readInput(r io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(r)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func printWarnings(w io.Writer, warnings []dto.RecoveryWarning) {
	for _, wn := range warnings {
		fmt.Fprintf(w, "  warning: question %d: %s\n", wn.QuestionIndex, wn.Reason)
	}
}
