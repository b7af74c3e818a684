package main

import (
	"fmt"
	"os"

	"quizforge/internal/dto"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		req      dto.GenerateQuizRequest
		codeFile string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz with the configured model and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if codeFile != "" {
				code, err := os.ReadFile(codeFile)
				if err != nil {
					return fmt.Errorf("failed to read code file: %w", err)
				}
				req.CodeSnippet = string(code)
			}

			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Validator.ValidateGenerateRequest(&req); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			resp, err := c.QuizService.GenerateQuiz(ctx, &req)
			if err != nil {
				return err
			}

			w := cmd.ErrOrStderr()
			fmt.Fprintf(w, "Stored quiz %s: %q (%d questions, %s)\n",
				resp.Quiz.ID, resp.Quiz.Title, len(resp.Quiz.Questions), resp.Quiz.Difficulty)
			printWarnings(w, resp.Warnings)

			if out == "" {
				return nil
			}
			doc, err := c.QuizService.ExportQuiz(ctx, resp.Quiz.ID)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, doc)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Topic, "topic", "", "Quiz topic")
	f.StringVar(&codeFile, "code-file", "", "File with a code snippet to quiz on")
	f.StringVar(&req.Difficulty, "difficulty", "", "beginner, intermediate or advanced")
	f.IntVar(&req.QuestionCount, "count", 0, "Number of questions (default from configuration)")
	f.StringVar(&out, "out", "", "Also write the quiz document to this file (- for stdout)")
	return cmd
}
