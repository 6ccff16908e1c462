package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopapi/internal/config"
	"shopapi/internal/handler"
	"shopapi/internal/infra/db"
	"shopapi/internal/infra/memory"
	"shopapi/internal/infra/notify"
	infraRepo "shopapi/internal/infra/repository"
	"shopapi/internal/observability"
	repo "shopapi/internal/repository"
	"shopapi/internal/server"
	"shopapi/internal/usecase"
	"shopapi/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now().UTC()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	//.env は任意（無ければ環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	//永続化の選択
	tx, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	//通知（KAFKA_BROKERS があれば Kafka、無ければログ）
	var sink notify.Sink = notify.NewLogNotifier(logger)
	if len(cfg.KafkaBrokers) > 0 {
		sink = notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	notifier := notify.NewAsync(sink, logger, 0)
	defer func() {
		if err := notifier.Close(); err != nil {
			logger.Warn("notifier close failed", zap.Error(err))
		}
	}()

	metrics := observability.NewMetrics()

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	cartUC := usecase.NewCartUsecase(tx)
	orderUC := usecase.NewOrderUsecase(tx, idGen, clock, notifier, metrics)
	statusUC := usecase.NewOrderStatusUsecase(tx, idGen, clock, notifier, metrics, usecase.StatusPolicy(cfg.StatusPolicy))
	productUC := usecase.NewProductUsecase(tx)
	categoryUC := usecase.NewCategoryUsecase(tx)
	reviewUC := usecase.NewReviewUsecase(tx)
	userUC := usecase.NewUserUsecase(
		tx,
		validator.NewUserValidator(),
		usecase.NewBcryptPasswordHasher(cfg.BcryptCost),
		usecase.RandomOTPGenerator{},
		idGen,
		clock,
		notifier,
		usecase.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL),
	)

	//Handler生成
	e := server.New(logger, metrics, server.Handlers{
		Cart:       handler.NewCartHandler(cartUC),
		Order:      handler.NewOrderHandler(orderUC, statusUC, cfg.JWTSecret),
		AdminOrder: handler.NewAdminOrderHandler(statusUC, cfg.JWTSecret),
		Product:    handler.NewProductHandler(productUC),
		Category:   handler.NewCategoryHandler(categoryUC),
		Review:     handler.NewReviewHandler(reviewUC),
		User:       handler.NewUserHandler(userUC, cfg.JWTSecret),
	})

	if !cfg.AuthEnabled() {
		logger.Warn("JWT_SECRET is empty, order status updates are not authenticated and login is disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Server起動
	return server.Start(ctx, e, cfg.Addr(), cfg.ShutdownTimeout, logger)
}

func openStore(cfg config.Config, logger *zap.Logger) (repo.TransactionManager, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Info("using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	gormDB, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(gormDB); err != nil {
			logger.Warn("db close failed", zap.Error(err))
		}
	}
	return infraRepo.NewTxManagerGorm(gormDB), closeFn, nil
}
