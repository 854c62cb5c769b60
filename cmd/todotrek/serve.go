package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"todotrek/internal/auth"
	"todotrek/internal/bot"
	"todotrek/internal/config"
	"todotrek/internal/notify"
	"todotrek/internal/repository"
	"todotrek/internal/rest"
	"todotrek/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	notifyTimeout   = 15 * time.Second
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Telegram bot and maintenance jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, closeLog, err := setupLogger(cfg.Env, cfg.LogsPath)
			if err != nil {
				return err
			}
			defer closeLog()
			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(parent context.Context, cfg config.Config, log *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	store := repository.NewStore(db)
	defer store.Close()

	deps := service.NewDeps(store, cfg.StoreTimeout, log)
	projects := service.NewProjectService(deps)
	categories := service.NewCategoryService(deps)
	tasks := service.NewTaskService(deps)

	router := notify.Router{Fallback: notify.NewLogNotifier(log)}
	var telegram *bot.Bot
	if cfg.TelegramToken != "" {
		telegram, err = bot.New(cfg.TelegramToken, store.Users, tasks, log)
		if err != nil {
			return err
		}
		router.Chat = telegram
	}
	dispatcher := notify.NewDispatcher(router, notifyTimeout, log)
	defer dispatcher.Wait()

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.VerificationTokenTTL)
	accounts := auth.NewService(store, issuer, dispatcher, cfg.FrontendURL, log)

	scheduler := service.NewSchedulerService(time.Local, log)
	if err := scheduler.Register(service.Maintenance{
		AuditInterval: cfg.AuditInterval,
		Audit:         service.NewAuditor(store, log).Run,
		PurgeAt:       cfg.PurgeAt,
		Purge:         accounts.PurgeExpired,
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	if telegram != nil {
		go func() {
			if err := telegram.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("bot stopped")
			}
		}()
	}

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: rest.NewRouter(rest.Services{
			Auth:       accounts,
			Projects:   projects,
			Categories: categories,
			Tasks:      tasks,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	log.Info("shutdown complete")
	return nil
}
