package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/rehabdesk/internal/geocode"
	"github.com/iwvelando/rehabdesk/internal/server"
	"github.com/iwvelando/rehabdesk/internal/service"
	"github.com/iwvelando/rehabdesk/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the project management API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	conf := c.conf
	logger := c.logger

	st, err := store.Open(ctx, store.Options{
		Driver: conf.Storage.Driver,
		Path:   conf.Storage.Path,
		DSN:    conf.Storage.DSN,
	}, logger)
	if err != nil {
		logger.Error("failed to open store",
			zap.String("op", "commands.serve"),
			zap.String("driver", conf.Storage.Driver),
			zap.Error(err),
		)
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", zap.String("op", "commands.serve"), zap.Error(err))
		}
	}()

	if conf.Geocoding.APIKey == "" {
		logger.Warn("no geocoding API key configured; project addresses will fail to geocode",
			zap.String("op", "commands.serve"),
		)
	}
	geo := geocode.NewClient(geocode.Options{
		APIKey:  conf.Geocoding.APIKey,
		BaseURL: conf.Geocoding.BaseURL,
		Timeout: conf.Geocoding.Timeout,
	}, logger)

	svc := service.New(st, geo, service.Options{
		FlipFinalStep:      conf.Analyzer.FlipFinalStep,
		MaxProjectionYears: conf.Analyzer.MaxProjectionYears,
	}, logger)

	handler := server.NewHandler(svc, conf.Server, c.version, logger)
	return server.Run(ctx, conf.Server, handler, logger)
}
