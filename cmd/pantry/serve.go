package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitchenmania/pantry/internal/api"
	"github.com/kitchenmania/pantry/internal/parser"
	"github.com/kitchenmania/pantry/internal/recipes"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}

			client := newClient()
			server := api.New(s, parser.New(client, log), recipes.NewSuggester(client, log), cfg.Server, log)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (overrides config)")
	return cmd
}
