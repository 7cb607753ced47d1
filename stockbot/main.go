package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rogerio-castellano/stock-bot/internal/alerts"
	"github.com/rogerio-castellano/stock-bot/internal/auth"
	"github.com/rogerio-castellano/stock-bot/internal/bot"
	"github.com/rogerio-castellano/stock-bot/internal/config"
	"github.com/rogerio-castellano/stock-bot/internal/db"
	api "github.com/rogerio-castellano/stock-bot/internal/http"
	"github.com/rogerio-castellano/stock-bot/internal/redissvc"
	"github.com/rogerio-castellano/stock-bot/internal/repo"
	"github.com/rogerio-castellano/stock-bot/internal/stock"
	"github.com/rogerio-castellano/stock-bot/internal/telegram"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Could not connect to database: ", err)
	}
	defer database.Close()

	inventory := stock.NewService(repo.NewPostgresStockRepository(database, repo.Tables{
		Stock:         cfg.StockTable,
		Listing:       cfg.ListingTable,
		ListingColumn: cfg.ListingColumn,
	}))

	authorizer := auth.NewAuthorizer(cfg.AuthorizedUsers)
	if authorizer.Len() == 0 {
		log.Println("⚠️ No valid authorized users configured, every interaction will be rejected")
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatal("❌ Could not reach Telegram: ", err)
	}
	botAPI.Debug = cfg.Debug
	log.Printf("✅ Authorized on account %s", botAPI.Self.UserName)
	messenger := telegram.NewClient(botAPI)

	checks := map[string]api.Check{"database": database.PingContext}

	var store alerts.EntryStore = alerts.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb, err := redissvc.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatal("❌ Could not connect to Redis: ", err)
		}
		defer rdb.Close()
		redisService := redissvc.NewRedisService(rdb)
		store = redisService
		checks["redis"] = redisService.Ping
	}
	monitor := alerts.NewMonitor(store, messenger, cfg.AdminChatID)

	b := bot.New(bot.Deps{
		Inventory:      inventory,
		Authorizer:     authorizer,
		Messenger:      messenger,
		Observer:       monitor,
		ListingURLBase: cfg.ListingURLBase,
	})

	var events <-chan bot.Event
	var webhook http.Handler
	switch cfg.Mode {
	case config.ModeWebhook:
		if err := telegram.RegisterWebhook(botAPI, cfg.WebhookURL); err != nil {
			log.Fatal("❌ ", err)
		}
		ch := make(chan bot.Event)
		events = ch
		webhook = telegram.WebhookHandler(ctx, botAPI, ch)
	default:
		events, err = telegram.Poll(ctx, botAPI)
		if err != nil {
			log.Fatal("❌ ", err)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(api.Deps{Checks: checks, Webhook: webhook}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("✅ Bot running in %s mode", cfg.Mode)
		// ErrUpdatesClosed cancels ctx so the ops server and monitor stop too.
		return b.Run(ctx, events)
	})
	g.Go(func() error {
		return monitor.Run(ctx, cfg.SummaryInterval)
	})
	g.Go(func() error {
		log.Printf("✅ Ops server running on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal("❌ ", err)
	}
	log.Println("👋 Stopped")
}
