// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/furniture-backend/internal/cart"
	"github.com/javajoker/furniture-backend/internal/config"
	"github.com/javajoker/furniture-backend/internal/database"
	"github.com/javajoker/furniture-backend/internal/i18n"
	"github.com/javajoker/furniture-backend/internal/repository"
	"github.com/javajoker/furniture-backend/internal/router"
	"github.com/javajoker/furniture-backend/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Failed to load configuration: ", err)
	}

	setupLogging(cfg)

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		logrus.Fatal("Failed to initialize i18n: ", err)
	}

	// Set JWT secret
	utils.SetJWTSecret(cfg.Admin.JWTSecret)

	ctx := context.Background()

	// Open the connections the configured backends need
	backends := repository.Backends{DataDir: cfg.Storage.DataDir}
	if cfg.UsesBackend(config.BackendPostgres) {
		db, err := database.Initialize(cfg.Database)
		if err != nil {
			logrus.Fatal("Failed to initialize database: ", err)
		}
		defer database.Close(db)

		// Run database migrations
		if err := database.RunMigrations(db); err != nil {
			logrus.Fatal("Failed to run migrations: ", err)
		}
		backends.DB = db
	}
	if cfg.UsesBackend(config.BackendMongo) {
		client, mongoDB, err := database.ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			logrus.Fatal("Failed to connect to mongo: ", err)
		}
		defer database.DisconnectMongo(client)
		backends.Mongo = mongoDB
	}

	stores, closeCarts, err := openStores(ctx, cfg, backends)
	if err != nil {
		logrus.Fatal("Failed to open storage: ", err)
	}
	defer closeCarts()

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r, err := router.Initialize(cfg, stores)
	if err != nil {
		logrus.Fatal("Failed to initialize router: ", err)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":          cfg.Server.Port,
			"backend":       cfg.Storage.Backend,
			"admin_backend": cfg.AdminStorageBackend(),
			"cart_storage":  cfg.Cart.Storage,
		}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatal("Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Error("Server forced to shutdown: ", err)
		return
	}

	logrus.Info("Server exited")
}

func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// openStores builds the repository sets for both route groups and the cart
// storage. Every set must be readable; a missing data file is fatal. The
// returned func releases the cart storage.
func openStores(ctx context.Context, cfg *config.Config, backends repository.Backends) (router.Stores, func(), error) {
	public, err := openSet(ctx, cfg.Storage.Backend, backends)
	if err != nil {
		return router.Stores{}, nil, err
	}

	admin := public
	if cfg.AdminStorageBackend() != cfg.Storage.Backend {
		logrus.WithFields(logrus.Fields{
			"backend":       cfg.Storage.Backend,
			"admin_backend": cfg.AdminStorageBackend(),
		}).Warn("Admin and storefront use different storage backends; admin changes will not show in the storefront")

		admin, err = openSet(ctx, cfg.AdminStorageBackend(), backends)
		if err != nil {
			return router.Stores{}, nil, err
		}
	}

	carts, closeCarts, err := openCartStorage(ctx, cfg)
	if err != nil {
		return router.Stores{}, nil, err
	}

	return router.Stores{Public: public, Admin: admin, Carts: carts}, closeCarts, nil
}

func openSet(ctx context.Context, backend string, backends repository.Backends) (*repository.Set, error) {
	set, err := repository.Open(ctx, backend, backends)
	if err != nil {
		return nil, err
	}
	if err := set.Verify(ctx); err != nil {
		return nil, err
	}
	return set, nil
}

func openCartStorage(ctx context.Context, cfg *config.Config) (cart.Storage, func(), error) {
	noop := func() {}

	switch cfg.Cart.Storage {
	case config.CartStorageFile:
		storage, err := cart.NewFileStorage(cfg.Cart.Dir)
		if err != nil {
			return nil, nil, err
		}
		return storage, noop, nil
	case config.CartStorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logrus.WithError(err).Error("Error closing redis connection")
			}
		}
		return cart.NewRedisStorage(client, time.Duration(cfg.Cart.TTL)*time.Hour), closeClient, nil
	default:
		return cart.NewMemoryStorage(), noop, nil
	}
}
