package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/helexia/contractrisk/internal/api"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// serveCmd runs the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the calculator and the project store over HTTP",
	Long: `Start a JSON HTTP API exposing the penalty calculator, the exposure
aggregator and the stored projects.

Routes:
  GET  /healthz
  POST /api/penalty                 (?ai=true to generate the clause)
  POST /api/exposure
  GET  /api/portfolio               (?months=N)
  GET  /api/projects
  GET  /api/projects/:id
  GET  /api/projects/:id/exposure
  POST /api/projects/:id/calculation

Examples:
  contractrisk serve
  contractrisk serve --serve-addr :9090 --store-backend none`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.New(cfg, storeManager, newGenerator())
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx, cfg.ServeAddr)
		})
		g.Go(func() error {
			<-gctx.Done()
			contract.Logger.Info().Msg("shutting down HTTP API")
			return nil
		})

		contract.Logger.Info().Str("addr", cfg.ServeAddr).Msg("HTTP API listening")
		if err := g.Wait(); err != nil {
			contract.LogFatal("HTTP API stopped", err)
		}
	},
}
