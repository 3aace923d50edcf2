package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"github.com/swharr/storm-surge/internal/config"
	"github.com/swharr/storm-surge/internal/constant"
	"github.com/swharr/storm-surge/internal/handler"
	"github.com/swharr/storm-surge/internal/pkg/realtime"
	"github.com/swharr/storm-surge/internal/repository"
	useCase "github.com/swharr/storm-surge/internal/usecase"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func runServer(configData *config.Config, validatorInst *validator.Validate) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap DB
	newDBLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	postgresConfig := configData.Database.Postgres
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		postgresConfig.Host,
		postgresConfig.Username,
		postgresConfig.Password,
		postgresConfig.DBName,
		postgresConfig.Port,
	)
	db, err := gorm.Open(
		postgres.Open(dsn), &gorm.Config{
			Logger: newDBLogger,
		},
	)
	if err != nil {
		log.Fatal(err.Error())
	}
	dbSQL, err := db.DB()
	if err != nil {
		log.Fatal(err.Error())
	}
	err = dbSQL.Ping()
	if err != nil {
		log.Fatal(err.Error())
	}
	defer dbSQL.Close()

	err = repository.Migrate(db)
	if err != nil {
		log.Fatal(err.Error())
	}

	// Bootstrap Redis
	redisClient := redis.NewClient(
		&redis.Options{
			Addr: fmt.Sprintf(
				"%s:%s",
				configData.Database.Redis.Host,
				configData.Database.Redis.Port,
			),
			Password: configData.Database.Redis.Password,
			DB:       0,
		},
	)
	if status := redisClient.Ping(ctx); status.Err() != nil {
		log.Fatal(status.Err().Error())
	}
	defer redisClient.Close()

	// Bootstrap Dependencies
	resources := &config.StormSurgeResources{
		DB:            db,
		ValidatorInst: validatorInst,
		Redis:         redisClient,
	}

	repositories := repository.BuildRepositories(resources, configData)
	hub := realtime.NewHub()
	useCases, err := useCase.BuildUseCases(resources, repositories, configData, hub)
	if err != nil {
		log.Fatal(err.Error())
	}
	handlers := handler.BuildHandlers(useCases, resources, configData, hub)

	app := fiber.New(
		fiber.Config{
			AppName: "storm-surge",
		},
	)
	buildRoute(handlers, app, configData)

	log.Infof("feature flag provider: %s", configData.FeatureFlag.Provider)
	log.Infof("logging provider: %s", useCases.EventSink.Type())
	log.Infof("spot cluster id: %s", configData.Ocean.ClusterID)
	if configData.Ocean.APIToken == "" {
		log.Warn("spot api token not configured")
	}

	useCases.EventSink.LogCustomEvent("application_startup", map[string]interface{}{
		"feature_flag_provider": string(configData.FeatureFlag.Provider),
		"logging_provider":      string(useCases.EventSink.Type()),
		"spot_cluster_id":       configData.Ocean.ClusterID,
		"version":               constant.ServiceVersion,
	})

	errGroup, egCtx := errgroup.WithContext(ctx)

	// The sink worker owns periodic flushes and the guaranteed final flush
	// on shutdown.
	errGroup.Go(func() error {
		return useCases.EventSink.Run(egCtx)
	})

	errGroup.Go(func() error {
		log.Infof("starting storm-surge middleware on port %s", configData.Server.Port)
		return app.Listen(fmt.Sprintf(":%s", configData.Server.Port))
	})

	errGroup.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			log.Infof("received signal %s, shutting down", sig)
		case <-egCtx.Done():
		}
		cancel()
		return app.Shutdown()
	})

	if err := errGroup.Wait(); err != nil {
		log.Fatal(err.Error())
	}
	log.Info("flushed pending events on shutdown")
}
