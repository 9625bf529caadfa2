package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ledgerrun-dev/ledgerrun/internal/jobs"
)

func newDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the daily jobs on a schedule and serve metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			return runDaemon(cmd.Context(), e)
		},
	}
	return cmd
}

func runDaemon(parent context.Context, e *env) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runAt, err := time.ParseInLocation("15:04", e.cfg.Daemon.RunAt, e.loc)
	if err != nil {
		return fmt.Errorf("parsing daemon run_at %q: %w", e.cfg.Daemon.RunAt, err)
	}

	if addr := e.cfg.Daemon.ListenAddr; addr != "" {
		mux := chi.NewRouter()
		mux.Handle("/metrics", promhttp.Handler())
		mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.log.Error().Err(err).Msg("metrics server")
			}
		}()
		defer func() {
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutCtx)
		}()
		e.log.Info().Str("addr", addr).Msg("serving metrics")
	}

	runner := jobs.New(e.db, e.log)
	for {
		next := nextFiring(time.Now().In(e.loc), runAt.Hour(), runAt.Minute())
		e.log.Info().Time("next_run", next).Msg("daemon sleeping")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			e.log.Info().Msg("daemon stopping")
			return nil
		case <-timer.C:
		}

		today := e.today()
		runner.RunDaily(ctx, today)
		// Monthly jobs fire on the first of the month, for the month
		// that just began.
		if today.Day() == 1 {
			runner.RunMonthly(ctx, today)
		}
	}
}

// nextFiring returns the next hh:mm strictly after now.
func nextFiring(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
