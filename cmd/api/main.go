package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nudriin/antrian-rest-api/internal/config"
	"github.com/nudriin/antrian-rest-api/internal/database"
	"github.com/nudriin/antrian-rest-api/internal/dates"
	"github.com/nudriin/antrian-rest-api/internal/report"
	"github.com/nudriin/antrian-rest-api/internal/repository/postgres"
	"github.com/nudriin/antrian-rest-api/internal/router"
	"github.com/nudriin/antrian-rest-api/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		l.Fatal().Err(err).Str("tz", cfg.Timezone).Msg("invalid timezone")
	}
	d := dates.New(loc)

	// db
	pool, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	// http
	r, queueSvc := router.New(l, pool, cfg, d)

	// unattended jobs: monthly report, nightly backup
	monthly := report.NewMonthly(queueSvc, postgres.NewUserRepo(pool), d, cfg, l)
	backup := report.NewBackup(cfg, d, l)

	jobs := cron.New(cron.WithLocation(loc))
	jobs.AddFunc("@monthly", func() { monthly.Run(context.Background()) })
	jobs.AddFunc("@midnight", func() {
		if err := backup.Run(context.Background()); err != nil {
			l.Error().Err(err).Msg("backup job failed")
		}
	})
	jobs.Start()
	defer jobs.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
