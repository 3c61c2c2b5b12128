package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"radagast/internal/catalog"
	"radagast/internal/commons"
	"radagast/internal/config"
	"radagast/internal/infrastructure/logger"
	"radagast/internal/infrastructure/mysql"
	"radagast/internal/infrastructure/redis"
	"radagast/internal/pos"
	"radagast/internal/server"
	"radagast/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := commons.LoadConfigFile(path, cfg); err != nil {
			log.Fatalf("loading config file: %v", err)
		}
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	kv, cleanup, err := openStore(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("opening store", zap.Error(err))
	}
	defer cleanup()

	collections := storage.NewCollections(kv)

	catalogStore, catalogCtrl := catalog.NewModule(collections, zapLogger, cfg.Catalog.SeedDemo)
	register, posCtrl := pos.NewModule(catalogStore, collections, zapLogger, cfg.POS.ReceiptHeader)

	ctx := context.Background()
	if err := catalogStore.Load(ctx); err != nil {
		zapLogger.Fatal("loading catalog", zap.Error(err))
	}
	register.Load(ctx)

	router := server.NewRouter(catalogCtrl, posCtrl, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

// openStore builds the key-value backend named by STORE_DRIVER and returns
// it with a close function for whatever connection it holds.
func openStore(cfg *config.Config, zapLogger *zap.Logger) (storage.KV, func(), error) {
	switch cfg.Store.Driver {
	case "mysql":
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		kv := storage.NewMySQLKV(db)
		if err := kv.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, nil, err
		}
		zapLogger.Info("database connected", zap.String("host", cfg.Database.Host))
		return kv, func() { db.Close() }, nil
	case "redis":
		client, err := redis.NewClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
		return storage.NewRedisKV(client), func() { client.Close() }, nil
	default:
		zapLogger.Warn("using in-memory store, data will not survive restarts")
		return storage.NewMemoryKV(), func() {}, nil
	}
}
