package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pventura/congregation-admin/internal/api"
)

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long:  "Expose the scheduling services over HTTP for the web front end",
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := api.NewHandler(app.Database, app.Resolver, app.Logger)
			router := api.NewRouter(handler, app.Logger)

			app.Logger.Info("Serving HTTP API", zap.String("addr", app.Cfg.ListenAddr))
			if err := router.Run(app.Cfg.ListenAddr); err != nil {
				return fmt.Errorf("server stopped: %w", err)
			}
			return nil
		},
	}
}
