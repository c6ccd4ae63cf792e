package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	httphandler "github.com/webcarros/backend/internal/adapter/http/handler"
	httprouter "github.com/webcarros/backend/internal/adapter/http/router"
	"github.com/webcarros/backend/internal/adapter/messaging/nats"
	"github.com/webcarros/backend/internal/adapter/repository/cache"
	"github.com/webcarros/backend/internal/adapter/repository/mongodb"
	"github.com/webcarros/backend/internal/adapter/storage/s3"
	"github.com/webcarros/backend/internal/config"
	listingusecase "github.com/webcarros/backend/internal/listing/usecase"
	"github.com/webcarros/backend/internal/mailer"
	"github.com/webcarros/backend/internal/platform/logger"
	userrepository "github.com/webcarros/backend/internal/user/repository"
	userusecase "github.com/webcarros/backend/internal/user/usecase"
)

func main() {
	cfg, err := config.Load(os.Getenv("CARWEB_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(os.Getenv("CARWEB_ENV"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	ctx := context.Background()

	// MongoDB
	mongoCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()
	mongoClient, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(mongoCtx, nil); err != nil {
		zlog.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Object storage
	storageClient, err := s3.NewS3Storage(ctx, cfg.MinIO.Endpoint, cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, cfg.MinIO.Bucket, cfg.MinIO.UseSSL, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// NATS
	natsPublisher, err := nats.NewPublisher(cfg.NATS.URL, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer natsPublisher.Close()

	// Repositories and usecases
	listingRepo := mongodb.NewListingRepository(db)
	listingCache := cache.NewListingCache(redisClient)
	userRepo := userrepository.NewUserRepository(db, redisClient)

	var listingMailer listingusecase.Mailer
	if cfg.SMTP.Enabled {
		listingMailer = mailer.NewSMTPMailer(cfg.SMTP)
	}

	draftUC := listingusecase.NewDraftUsecase(storageClient, zlog)
	listingUC := listingusecase.NewListingUsecase(listingRepo, draftUC, storageClient, listingCache, natsPublisher, listingMailer, zlog)
	userUC := userusecase.NewUserUsecase(userRepo, cfg.JWT.Secret, cfg.JWT.TokenTTL, zlog)

	// HTTP server
	userHandler := httphandler.NewUserHandler(userUC, zlog)
	listingHandler := httphandler.NewListingHandler(listingUC, userUC, zlog)
	imageHandler := httphandler.NewImageHandler(draftUC, cfg.HTTP.MaxUploadBytes, zlog)

	mux := httprouter.New(userHandler, listingHandler, imageHandler, userUC, cfg.JWT.Secret, zlog)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		zlog.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Graceful shutdown failed", zap.Error(err))
	}
}
