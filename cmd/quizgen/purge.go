package main

import (
	"context"
	"errors"
	"fmt"

	"quizforge/internal/cache"

	"github.com/spf13/cobra"
)

type cachePurger interface {
	Purge(ctx context.Context, pattern string) (int, error)
}

func newPurgeCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-cache",
		Short: "Remove every cached model response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			p, ok := c.Cache.(cachePurger)
			if !ok {
				return errors.New("response cache is not configured (set redis.address)")
			}
			n, err := p.Purge(commandContext(cmd), cache.ResponsePattern())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached responses\n", n)
			return nil
		},
	}
}
