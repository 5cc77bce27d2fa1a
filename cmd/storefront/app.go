package main

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/config"
	"storefront/internal/clients"
	"storefront/internal/domain"
	"storefront/internal/messaging"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/pkg/db"
	"storefront/pkg/logger"

	"github.com/sirupsen/logrus"
)

// app holds everything the subcommands share. Close releases it.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	db     *sql.DB
	events domain.EventPublisher

	products domain.ProductRepository
	carts    domain.CartRepository
	orders   domain.OrderRepository
	profiles domain.ProfileRepository
}

func bootstrap(ctx context.Context) (*app, error) {
	bootLog := logrus.New()
	cfg, err := config.Load(bootLog)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	log.Infof("Storefront %s starting", Version)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return nil, err
	}
	log.Info("Database connection established.")

	var events domain.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		events = messaging.NewKafkaPublisher(cfg.KafkaBrokers, messaging.Topics{
			OrderPlaced:    cfg.OrderPlacedTopic,
			OrderCompleted: cfg.OrderCompletedTopic,
		}, log)
		log.Infof("Order events go to Kafka brokers %v", cfg.KafkaBrokers)
	} else {
		events = messaging.NewLogPublisher(log)
		log.Warn("KAFKA_BROKERS is empty, order events are only logged")
	}

	return &app{
		cfg:      cfg,
		log:      log,
		db:       database,
		events:   events,
		products: repository.NewPostgresProductRepository(database, log),
		carts:    repository.NewPostgresCartRepository(database, log),
		orders:   repository.NewPostgresOrderRepository(database, log),
		profiles: repository.NewPostgresProfileRepository(database, log),
	}, nil
}

func (a *app) checkout() usecase.CheckoutUseCase {
	payments := clients.NewStripePaymentGateway(a.cfg.StripeSecretKey, a.cfg.Currency, a.log)
	return usecase.NewCheckoutUseCase(a.orders, a.carts, a.products, payments, a.events, usecase.CheckoutConfig{
		SiteURL:    a.cfg.SiteURL,
		TaxRate:    a.cfg.TaxRate,
		StaleAfter: a.cfg.StaleOrderAfter,
	}, a.log)
}

func (a *app) Close() {
	if err := a.events.Close(); err != nil {
		a.log.Warnf("Failed to close event publisher: %v", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Warnf("Failed to close database: %v", err)
	}
}
