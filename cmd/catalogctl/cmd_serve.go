package main

import (
	"product-catalog/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

// catalogctl serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		if servePort != "" {
			cfg.Server.Port = servePort
		}

		log.Info("Starting product catalog API",
			zap.String("env", cfg.Server.Env),
			zap.String("port", cfg.Server.Port),
		)

		store, err := server.OpenStore(cfg.Database, log)
		if err != nil {
			return err
		}

		return server.NewServer(cfg, log, store).Run()
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides SERVER_PORT)")
}
