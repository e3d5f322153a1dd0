package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/example/go-phonecodes/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			svc, err := phonecodes.NewServiceFromConfig(cfg)
			if err != nil {
				return err
			}

			srv := server.New(cfg, svc)
			if cfg.Server.ShutdownTimeout > 0 {
				srv = srv.WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	return cmd
}
