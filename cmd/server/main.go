package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"comandero/internal/config"
	"comandero/internal/infrastructure/amqp"
	"comandero/internal/infrastructure/kafka"
	"comandero/internal/infrastructure/logger"
	"comandero/internal/infrastructure/mysql"
	"comandero/internal/infrastructure/redis"
	"comandero/internal/kitchen"
	"comandero/internal/menu"
	"comandero/internal/order"
	"comandero/internal/parsing"
	"comandero/internal/server"
)

func main() {
	defaultPath := os.Getenv("COMANDERO_CONFIG")
	if defaultPath == "" {
		defaultPath = "internal/config/config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	backend, err := kitchen.ParseBackend(cfg.Notifications.Backend)
	if err != nil {
		zapLogger.Fatal("invalid notifications backend", zap.Error(err))
	}

	model, provider, err := parsing.NewModel(cfg.LLM)
	if err != nil {
		zapLogger.Fatal("creating LLM client", zap.String("model", cfg.LLM.Model), zap.Error(err))
	}
	zapLogger.Info("order parser ready", zap.String("provider", string(provider)), zap.String("model", cfg.LLM.Model))

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var clients kitchen.Clients
	var feed *kitchen.RedisSubscriber
	switch backend {
	case kitchen.BackendRedis:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		clients.Redis, err = redis.NewClient(pingCtx, cfg.Redis)
		cancel()
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer clients.Redis.Close()
		feed = kitchen.NewRedisSubscriber(clients.Redis)
	case kitchen.BackendKafka:
		clients.Kafka = kafka.NewWriter(cfg.Kafka)
		defer clients.Kafka.Close()
	case kitchen.BackendAMQP:
		clients.AMQP, err = amqp.Dial(cfg.AMQP, zapLogger)
		if err != nil {
			zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
		}
		defer clients.AMQP.Close()
	}
	zapLogger.Info("kitchen notifications configured", zap.String("backend", string(backend)))

	publisher, err := kitchen.NewPublisher(backend, cfg, clients, zapLogger)
	if err != nil {
		zapLogger.Fatal("creating kitchen publisher", zap.Error(err))
	}

	menuModule := menu.NewModule(db, zapLogger)
	deps := order.Dependencies{
		Menu:      menuModule.Service,
		Parser:    parsing.NewGateway(model, provider, cfg.LLM.Timeout, zapLogger),
		Publisher: publisher,
	}
	if feed != nil {
		deps.Feed = feed
	}
	orderModule := order.NewModule(db, cfg, deps, zapLogger)

	router := server.NewRouter(server.Controllers{
		Menu:    menuModule.Controller,
		Orders:  orderModule.Orders,
		Kitchen: orderModule.Kitchen,
	}, cfg.Server.CORSAllowedOrigins, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("server stopped with error", zap.Error(err))
		return
	}

	zapLogger.Info("server stopped gracefully")
}
