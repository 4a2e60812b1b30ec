package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClearCmd(root *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear <resource>",
		Short: "Invalidate cached entries of a resource type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			if all {
				if err := s.cached.ClearAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "cleared ALL")
				return nil
			}
			if err := s.cached.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", s.cached.ResourceType())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "clear every resource type")
	return cmd
}
