package cli

import (
	"github.com/spf13/cobra"

	"magblocks/internal/config"
	"magblocks/internal/desktop"
)

func newDesktopCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "desktop",
		Short: "Open the board in a native window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Debug("opening window", "width", cfg.Surface.Width, "height", cfg.Surface.Height)
			return desktop.Run(cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	return cmd
}
