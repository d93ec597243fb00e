package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wibowo/storefront/internal/constants"
	"github.com/wibowo/storefront/internal/log"
)

func Start() {
	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.AppStorefront)).
		With().
		Str(log.KeyAppName, constants.AppStorefront).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.AppStorefront}
	commands := []*cobra.Command{
		{
			Use:   "server",
			Short: "Run the storefront HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				RunServer(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run the order notification listener",
			Run: func(cmd *cobra.Command, args []string) {
				RunNotification(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
