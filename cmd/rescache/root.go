package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/unkn0wn-root/rescache"
	"github.com/unkn0wn-root/rescache/internal/config"
	pr "github.com/unkn0wn-root/rescache/provider"
	"github.com/unkn0wn-root/rescache/remote/httpfinder"
)

type rootOptions struct {
	configPath string
	baseURL    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "rescache",
		Short:        "Read-through cache in front of a JSON resource API",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "override remote.base_url")

	cmd.AddCommand(
		newFindCmd(opts),
		newClearCmd(opts),
		newWarmCmd(opts),
	)
	return cmd
}

// session is one command's wiring: config -> store -> cached HTTP finder.
type session struct {
	cfg    *config.Config
	store  *pr.Store
	flush  func()
	cached *rescache.Cached[*httpfinder.Resource]
}

func (o *rootOptions) open(resource string) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.Remote.BaseURL = o.baseURL
	}

	log, flush, err := cfg.Log.Logger()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}

	client, err := httpfinder.New(httpfinder.Config{
		BaseURL:  cfg.Remote.BaseURL,
		Resource: resource,
		Timeout:  cfg.Remote.Timeout,
		Headers:  cfg.Remote.Headers,
	})
	if err != nil {
		flush()
		return nil, err
	}

	store, err := cfg.Store.OpenStore()
	if err != nil {
		flush()
		return nil, err
	}

	opts := rescache.Options[*httpfinder.Resource]{
		Store:        store,
		ResourceType: resource,
		Logger:       log,
	}
	if err := config.Apply(cfg.Cache, &opts); err != nil {
		_ = store.Close(context.Background())
		flush()
		return nil, err
	}
	cached, err := rescache.New[*httpfinder.Resource](client, opts)
	if err != nil {
		_ = store.Close(context.Background())
		flush()
		return nil, err
	}
	return &session{cfg: cfg, store: store, flush: flush, cached: cached}, nil
}

func (s *session) Close(ctx context.Context) error {
	defer s.flush()
	return s.store.Close(ctx)
}
