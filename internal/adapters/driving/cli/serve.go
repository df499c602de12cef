package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/registrar-labs/courserec/internal/adapters/driving/httpapi"
	"github.com/registrar-labs/courserec/internal/core/ports/driven"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation API over HTTP",
	Long: `Build the similarity index from the stored catalog and serve the
recommendation API until interrupted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if servePort < 0 || servePort > 65535 {
			return fmt.Errorf("port %d out of range", servePort)
		}

		app, err := newApp()
		if err != nil {
			return err
		}
		defer app.Close()

		port := servePort
		if port == 0 {
			port = app.config.GetInt(driven.ConfigKeyServerPort)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, err := app.recommenderService(ctx)
		if err != nil {
			return err
		}

		return httpapi.NewServer(svc, port).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default 8080)")
	rootCmd.AddCommand(serveCmd)
}
