package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"magblocks/internal/config"
	"magblocks/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web host",
		Long:  `Serve boards over HTTP. Each browser session gets its own board; updates are pushed over server-sent events.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return web.New(cfg, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
