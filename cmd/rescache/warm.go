package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/unkn0wn-root/rescache"
)

func newWarmCmd(root *rootOptions) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "warm <resource> [ids...]",
		Short: "Refetch records and write them into the cache",
		Long: "Refetches the full collection, or the given ids concurrently, " +
			"bypassing cached entries.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			reload := rescache.Opts{rescache.ReloadOption: true}
			ids := args[1:]
			if len(ids) == 0 {
				res, err := s.cached.Find(cmd.Context(), rescache.Args{rescache.All, reload})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "warmed %d records\n", res.Len())
				return nil
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(concurrency, 1))
			for _, id := range ids {
				g.Go(func() error {
					_, err := s.cached.Find(ctx, rescache.Args{id, reload})
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "warmed %d records\n", len(ids))
			return nil
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "n", 4, "parallel fetches")
	return cmd
}
