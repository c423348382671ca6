package main

import (
	"os"
	"os/signal"

	"github.com/zeebo/clingy"
	"golang.org/x/sync/errgroup"

	"loov.dev/recordview/config"
	"loov.dev/recordview/host"
	"loov.dev/recordview/logging"
	"loov.dev/recordview/render"
	"loov.dev/recordview/server"
	"loov.dev/recordview/watch"
)

type cmdServe struct {
	config string
	listen string
	watch  string
}

func (cmd *cmdServe) Setup(params clingy.Parameters) {
	cmd.config = params.Flag("config", "yaml configuration file", "", clingy.Short('c')).(string)
	cmd.listen = params.Flag("listen", "address to listen on, overrides the configuration", "").(string)
	cmd.watch = params.Flag("watch", "record file to render whenever it changes", "").(string)
}

func (cmd *cmdServe) Execute(ctx clingy.Context) error {
	cfg, err := config.Load(cmd.config)
	if err != nil {
		return err
	}
	if cmd.listen != "" {
		cfg.Listen = cmd.listen
	}
	if cmd.watch != "" {
		cfg.Watch = cmd.watch
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.Log)
	hub := host.NewHub(log, cfg.Selection.Buffer)
	srv := server.New(log, hub)

	sigctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	group, gctx := errgroup.WithContext(sigctx)
	group.Go(func() error {
		return srv.Run(gctx, cfg.Listen)
	})
	if cfg.Watch != "" {
		group.Go(func() error {
			return watch.File(gctx, log, cfg.Watch, func() {
				err := srv.LoadFile(gctx, cfg.Watch, render.Format(cfg.Format), cfg.AppID)
				if err != nil {
					log.Warn("failed to render watched file", "path", cfg.Watch, "error", err)
				}
			})
		})
	}
	return group.Wait()
}
