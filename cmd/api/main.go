package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iamasit07/4-in-a-row/engine/internal/analytics"
	"github.com/iamasit07/4-in-a-row/engine/internal/config"
	"github.com/iamasit07/4-in-a-row/engine/internal/repository/postgres"
	"github.com/iamasit07/4-in-a-row/engine/internal/repository/redis"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/bot"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/cleanup"
	"github.com/iamasit07/4-in-a-row/engine/internal/service/game"
	transportHttp "github.com/iamasit07/4-in-a-row/engine/internal/transport/http"
	"github.com/iamasit07/4-in-a-row/engine/internal/transport/websocket"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found")
		}
	}

	cfg := config.LoadConfig()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 1. Statistics store (optional)
	var db *sql.DB
	var statsRepo *postgres.StatsRepo
	if cfg.DatabaseURL != "" {
		var err error
		db, err = postgres.Open(cfg.DatabaseURL, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, cfg.DBConnMaxLifetimeMin)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		defer db.Close()

		log.Println("Running database migrations...")
		if err := postgres.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Database migration completed successfully")
		statsRepo = postgres.NewStatsRepo(db)
	} else {
		log.Println("[DB] DATABASE_URL not set, search statistics disabled")
	}

	// 2. Result cache (optional)
	var cache game.CacheRepository
	if client := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword); client != nil {
		defer client.Close()
		cache = redis.NewRedisCache(client)
	}

	// 3. Analytics (optional)
	producer := analytics.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	// 4. Services
	var stats game.StatsRepository
	var events game.EventPublisher
	if statsRepo != nil {
		stats = statsRepo
	}
	if producer != nil {
		events = producer
	}
	engine := bot.NewEngine(cfg.Bot)
	gameService := game.NewService(engine, cache, stats, events, cfg.ResultCacheTTL)

	// 5. Background workers
	if statsRepo != nil {
		cleanup.NewWorker(statsRepo, cfg.StatsRetentionDays, cfg.CleanupInterval).Start(ctx)
	}

	// 6. Handlers and router
	connManager := websocket.NewConnectionManager()
	wsHandler := websocket.NewHandler(connManager, gameService, cfg.JWTSecret, cfg.AllowedOrigins)

	health := transportHttp.Health{
		Database:  db != nil,
		Cache:     cache != nil,
		Analytics: producer != nil,
	}
	routerCfg := transportHttp.RouterConfig{
		Bot:            transportHttp.NewBotHandler(gameService),
		Health:         health,
		WebSocket:      wsHandler.HandleWebSocket,
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.JWTSecret,
	}
	if statsRepo != nil {
		routerCfg.Stats = transportHttp.NewStatsHandler(statsRepo)
	}
	router := transportHttp.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	// hijacked websocket connections are not closed by Shutdown
	connManager.CloseAll()
	stop()
	gameService.Wait()

	log.Println("Server exited gracefully")
}
