package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/denprystai/mediamonitor/internal/config"
	"github.com/denprystai/mediamonitor/internal/digest"
	"github.com/denprystai/mediamonitor/internal/newsapi"
	"github.com/denprystai/mediamonitor/internal/saver"
	"github.com/denprystai/mediamonitor/internal/scheduler"
	"github.com/denprystai/mediamonitor/internal/seen"
	"github.com/denprystai/mediamonitor/internal/store"
	"github.com/denprystai/mediamonitor/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server

	repo      store.Repo
	seenStore seen.Store
	router    *telegram.Router
	sched     *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	// The client timeout must stay above the 30s update long-poll; it
	// bounds delivery calls so one slow send cannot stall the scheduler.
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, tgbotapi.APIEndpoint, &http.Client{Timeout: 40 * time.Second})
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting mediamonitor",
		zap.String("http", a.cfg.HTTPAddr),
		zap.Duration("tick", a.cfg.TickInterval),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	seenStore, err := seen.New(a.cfg.SeenStore, a.cfg.SeenDBPath, seen.Options{TTL: a.cfg.SeenTTL})
	if err != nil {
		a.log.Error("open seen store failed", zap.Error(err))
		return err
	}
	a.seenStore = seenStore

	prompts := saver.NewPrompts(a.cfg.PromptTTL)
	sv := saver.New(prompts, repo)
	dg := digest.NewOpenAIDigester(a.cfg.OpenAIKey, a.cfg.OpenAIPrompt)
	provider := newsapi.NewClient(a.cfg.NewsAPIURL, a.cfg.NewsAPIKey, a.cfg.ProviderTimeout)

	a.router = telegram.NewRouter(a.bot, a.log, repo, sv, dg)
	a.sched = scheduler.New(repo, seenStore, provider, a.router, prompts, a.log, scheduler.Config{
		TickInterval:  a.cfg.TickInterval,
		SearchTimeout: a.cfg.ProviderTimeout,
		MaxPerPoll:    a.cfg.MaxPerPoll,
	})

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.sched.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			// Create a short-lived shutdown context and cancel it immediately after use.
			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.seenStore != nil {
				_ = a.seenStore.Close()
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
