package main

import (
	"github.com/spf13/cobra"

	"github.com/leofalp/aistudio/internal/server"
)

func (c *cli) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}

			r, err := c.runner(cmd.Context())
			if err != nil {
				return err
			}
			defer r.Close()

			srv := server.New(r, server.Options{
				MaxBodyBytes: c.cfg.Server.MaxBodyBytes,
				ReadTimeout:  c.cfg.Server.ReadTimeout,
				WriteTimeout: c.cfg.Server.WriteTimeout,
				Logger:       c.logger,
			})
			return srv.ListenAndServe(cmd.Context(), c.cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
