package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"quizforge/internal/service"

	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch TOPICS.yaml",
		Short: "Generate and store a quiz for every topic in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			reqs, err := service.ParseBatchFile(data)
			if err != nil {
				return err
			}

			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			for i := range reqs {
				if err := c.Validator.ValidateGenerateRequest(&reqs[i]); err != nil {
					return fmt.Errorf("topic %d: %w", i+1, err)
				}
			}

			results := c.Batch.GenerateBatch(commandContext(cmd), reqs)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TOPIC\tQUIZ\tWARNINGS\tERROR")
			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Topic, r.QuizID, len(r.Warnings), r.Error)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d topics failed", failed, len(results))
			}
			return nil
		},
	}
}
