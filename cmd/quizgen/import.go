package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import PATH...",
		Short: "Store quiz documents",
		Long:  "import stores every quiz document given. A directory imports all of its *.json files.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandJSONFiles(args)
			if err != nil {
				return err
			}

			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := commandContext(cmd)
			w := cmd.OutOrStdout()
			failed := 0
			for _, f := range files {
				data, err := os.ReadFile(f)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", f, err)
				}
				resp, err := c.QuizService.ImportQuiz(ctx, data)
				if err != nil {
					failed++
					fmt.Fprintf(w, "%s: %v\n", f, err)
					continue
				}
				fmt.Fprintf(w, "%s: stored quiz %s (%d questions)\n", f, resp.Quiz.ID, len(resp.Quiz.Questions))
				printWarnings(w, resp.Warnings)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed to import", failed, len(files))
			}
			return nil
		},
	}
}

func expandJSONFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return files, nil
}
