package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Sainava/Wiz-Scholar/internal/catalog"
	"github.com/Sainava/Wiz-Scholar/internal/classifier"
	"github.com/Sainava/Wiz-Scholar/internal/config"
	"github.com/Sainava/Wiz-Scholar/internal/db"
	apihttp "github.com/Sainava/Wiz-Scholar/internal/http"
	"github.com/Sainava/Wiz-Scholar/internal/repository"
	"github.com/Sainava/Wiz-Scholar/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// The catalog is required for quiz endpoints but its absence is not
	// fatal: the service starts not-ready and reports 503 until an
	// operator fixes the bank and reloads.
	var cat *catalog.Catalog
	if loaded, err := catalog.LoadFile(cfg.QuestionsPath); err != nil {
		logger.Warn("question catalog unavailable", zap.Error(err), zap.String("path", cfg.QuestionsPath))
	} else {
		cat = loaded
		logger.Info("question catalog loaded", zap.String("path", cfg.QuestionsPath), zap.Int("questions", cat.Len()))
	}

	model, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		logger.Warn("classifier model unavailable, heuristic only", zap.Error(err), zap.String("path", cfg.ModelPath))
		model = classifier.NoModel{}
	} else if model.Available() {
		logger.Info("classifier model loaded", zap.String("type", model.Type()))
	}

	store := repository.NewMemorySessionStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using memory session store", zap.Error(err))
		} else {
			store = repository.NewRedisSessionStore(redisClient)
			logger.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
		}
		cancel()
	}

	var results repository.ResultRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("result archive unavailable", zap.Error(err))
		} else {
			defer pool.Close()
			results = repository.NewPgResultRepository(pool)
			logger.Info("result archive enabled")
		}
	}

	tokens := service.NewAdminTokenService(cfg.JWTSecret)
	if !tokens.Configured() {
		logger.Warn("jwt secret not configured, admin endpoints disabled")
	}

	sortingSvc := service.NewSortingService(logger, cat, store, service.DefaultWeightTable(), model, results)
	sortingHandler := apihttp.NewSortingHandler(logger, sortingSvc)
	adminHandler := apihttp.NewAdminHandler(logger, sortingSvc, tokens, cfg.QuestionsPath)
	router := apihttp.NewRouter(logger, sortingHandler, adminHandler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("ai_status", sortingSvc.AIStatus()))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
