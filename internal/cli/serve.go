package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mifi/goclip/internal/api"
)

type serveFlags struct {
	host string
	port int
}

func newServeCommand() *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server exposing clip/inspect/verify as JSON endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.host, "host", "", "bind host (default: from config)")
	cmd.Flags().IntVar(&f.port, "port", 0, "bind port (default: from config)")

	return cmd
}

func runServe(cmd *cobra.Command, f *serveFlags) error {
	logger := newLogger()
	defer logger.Sync()

	svc, cfg, err := buildServices(logger)
	if err != nil {
		return err
	}

	host := firstNonEmpty(f.host, cfg.Server.Host)
	port := firstNonZero(f.port, cfg.Server.Port)

	router := api.NewRouter(svc, cfg, logger)
	addr := fmt.Sprintf("%s:%d", host, port)
	fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
	return router.Run(addr)
}
