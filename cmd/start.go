package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"subdaap-sync/core/loader"
	"subdaap-sync/core/logger"
	"subdaap-sync/core/middleware/auth"
	"subdaap-sync/core/middleware/rayid"
	"subdaap-sync/feature/library"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Serve the live library and synchronize periodically",
	Long: `Loads the live library from the local store, serves it over HTTP, runs an
initial pass for every remote and repeats it every sync.interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, store, live model and synchronizers
		app, err := bootstrap(ctx, true)
		if err != nil {
			return err
		}
		logg := app.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Initialize Fiber App
		server := fiber.New(fiber.Config{
			AppName:               app.cfg.Server.Name,
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(library.NewFeature(app.model, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		server.Use(rayid.New())

		// 2. Logging Middleware (Zap + RayID)
		server.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		server.Use(auth.New(auth.Config{ApiKey: app.cfg.Server.ApiKey}))

		// 4. Load Features
		if err := mgr.LoadAll(server); err != nil {
			return err
		}

		// 5. Start Server
		serverErr := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("address", app.cfg.Server.Address()))
			serverErr <- server.Listen(app.cfg.Server.Address())
		}()

		// 6. Periodic synchronization
		syncDone := make(chan error, 1)
		go func() {
			logg.Info("Starting synchronizer", zap.Duration("interval", app.cfg.Sync.Interval))
			syncDone <- app.runner.Run(ctx)
		}()

		// 7. Graceful Shutdown
		select {
		case <-ctx.Done():
		case err := <-serverErr:
			if err != nil {
				logg.Error("Server failed", zap.Error(err))
			}
			stop()
		}

		logg.Info("Shutting down server...")
		shutdownErr := server.Shutdown()
		if err := <-syncDone; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return shutdownErr
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
