package main

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/rescache"
)

func newFindCmd(root *rootOptions) *cobra.Command {
	var (
		reload bool
		query  []string
	)
	cmd := &cobra.Command{
		Use:   "find <resource> [args...]",
		Short: "Look up records through the cache",
		Example: `  rescache find widgets all
  rescache find widgets 42 --reload
  rescache find widgets all --query color=red`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lookup, err := lookupArgs(args[1:], query, reload)
			if err != nil {
				return err
			}

			s, err := root.open(args[0])
			if err != nil {
				return err
			}
			defer s.Close(cmd.Context())

			res, err := s.cached.Find(cmd.Context(), lookup)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if r, ok := res.Single(); ok {
				return enc.Encode(r)
			}
			if res.IsCollection() {
				return enc.Encode(res.Records())
			}
			return enc.Encode(nil)
		},
	}
	cmd.Flags().BoolVar(&reload, "reload", false, "bypass the cache and refetch")
	cmd.Flags().StringArrayVarP(&query, "query", "q", nil, "query option key=value (repeatable)")
	return cmd
}

// lookupArgs turns positional arguments and key=value options into lookup
// arguments. No positional arguments means the whole collection.
func lookupArgs(pos, query []string, reload bool) (rescache.Args, error) {
	args := make(rescache.Args, 0, len(pos)+1)
	for _, p := range pos {
		args = append(args, p)
	}
	if len(args) == 0 {
		args = append(args, rescache.All)
	}

	opts := rescache.Opts{}
	for _, kv := range query {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("invalid --query %q, want key=value", kv)
		}
		opts[k] = v
	}
	if reload {
		opts[rescache.ReloadOption] = true
	}
	if len(opts) > 0 {
		args = append(args, opts)
	}
	return args, nil
}
