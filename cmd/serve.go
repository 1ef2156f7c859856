package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/termfolio/internal/errors"
	"github.com/conneroisu/termfolio/internal/server"
)

// shutdownTimeout bounds graceful shutdown after a signal.
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the web terminal",
	Long: `Serve the terminal page, its WebSocket sessions and the stateless
command endpoint.

Examples:
  termfolio serve                       # Serve on localhost:8080
  termfolio serve --port 3000 --open    # Pick a port and open a browser
  termfolio serve --profile me.yaml --watch-profile`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("open", false, "Open a browser once listening")
	serveCmd.Flags().StringSlice("allowed-origin", nil, "Extra origin allowed to open sessions (repeatable)")
	serveCmd.Flags().String("environment", "development", "Environment (development, production)")
	serveCmd.Flags().Bool("watch-profile", false, "Reload the profile file when it changes")
	serveCmd.Flags().Var(newThemeValue(), "theme", "Theme for new sessions (dark, light)")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.open", serveCmd.Flags().Lookup("open"))
	viper.BindPFlag("server.allowed_origins", serveCmd.Flags().Lookup("allowed-origin"))
	viper.BindPFlag("server.environment", serveCmd.Flags().Lookup("environment"))
	viper.BindPFlag("profile.watch", serveCmd.Flags().Lookup("watch-profile"))
	viper.BindPFlag("terminal.default_theme", serveCmd.Flags().Lookup("theme"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, a.resolver, a.logger)
	if err := srv.Listen(); err != nil {
		return errors.NewEnhancedError(
			fmt.Sprintf("Failed to start server on port %d", cfg.Server.Port),
			err,
			errors.ServerStartError(err, cfg.Server.Port),
		)
	}

	stopWatch, err := a.watchProfile(ctx)
	if err != nil {
		a.logger.Warn(ctx, err, "profile hot reload disabled")
		stopWatch = func() error { return nil }
	}
	defer stopWatch()

	fmt.Fprintf(cmd.OutOrStdout(), "Terminal portfolio at http://%s\n", srv.Addr())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info(context.Background(), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
