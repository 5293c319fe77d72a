package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nexuscrm/hygiene/internal/application/services"
	"github.com/nexuscrm/hygiene/internal/infrastructure/persistence"
	"github.com/nexuscrm/hygiene/internal/interfaces/rest"
	"github.com/nexuscrm/hygiene/pkg/auth"
)

const shutdownTimeout = 10 * time.Second

func (a *App) serveCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hygiene API and run scheduled checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if port != "" {
				a.cfg.Server.Port = port
			}

			db, err := a.openDatabase(ctx)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
				if err := persistence.Migrate(ctx, db); err != nil {
					return err
				}
			} else {
				a.logger.Warn().Msg("⚠️  No database configured, runs are kept in memory")
			}

			sm, err := a.newServices("", db, services.ManagerOptions{PersistRuns: true, Schedule: true})
			if err != nil {
				return err
			}
			if err := sm.Start(); err != nil {
				return err
			}
			defer sm.Stop()
			if sm.Scheduler != nil {
				a.logger.Info().Time("next", sm.Scheduler.Next()).Msg("⏰ Scheduled hygiene runs enabled")
			}

			if a.logger.GetLevel() > zerolog.DebugLevel {
				gin.SetMode(gin.ReleaseMode)
			}
			issuer := auth.NewIssuer(a.cfg.Auth.JWTSecret)
			if !issuer.Enabled() {
				a.logger.Warn().Msg("⚠️  auth.jwt_secret is empty, /api is unauthenticated")
			}
			router := rest.NewRouter(rest.NewHygieneHandler(sm.Hygiene), issuer, a.logger)

			server := &http.Server{
				Addr:              ":" + a.cfg.Server.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return a.serve(ctx, server)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides server.port)")
	return cmd
}

// serve runs server until ctx is cancelled, then shuts it down gracefully
func (a *App) serve(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", server.Addr).Msg("🚀 Hygiene API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("🛑 Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
