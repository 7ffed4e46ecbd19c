package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/psgplacements/interview-platform/internal/portal/controller"
	gorm "github.com/psgplacements/interview-platform/internal/portal/db"
	"github.com/psgplacements/interview-platform/internal/portal/events"
	"github.com/psgplacements/interview-platform/internal/portal/handlers"
	"github.com/psgplacements/interview-platform/internal/portal/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config struct for YAML configuration
type Config struct {
	HTTPPort       int      `yaml:"HTTP_PORT"`
	DBHost         string   `yaml:"DB_HOST"`
	DBPort         int      `yaml:"DB_PORT"`
	DBUser         string   `yaml:"DB_USER"`
	DBPassword     string   `yaml:"DB_PASSWORD"`
	DBName         string   `yaml:"DB_NAME"`
	DBSSLMode      string   `yaml:"DB_SSLMODE"`
	KafkaBrokers   []string `yaml:"KAFKA_BROKERS"`
	JWTSecret      string   `yaml:"JWT_SECRET"`
	Topic          string   `yaml:"TOPIC"`
	AppDataTopic   string   `yaml:"APP_DATA_TOPIC"`
	AppDataGroupID string   `yaml:"APP_DATA_GROUP_ID"`
	AllowedOrigins []string `yaml:"ALLOWED_ORIGINS"`
}

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := gorm.NewRepository(initDatabase(cfg))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}

	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		logger.Fatal("failed to initialize Kafka producer", zap.Error(err))
	}
	defer producer.Close()

	// Ingest externally sourced company candidates for search.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := events.NewConsumer(cfg.KafkaBrokers, cfg.AppDataGroupID, cfg.AppDataTopic, logger)
	consumer.RegisterHandler(func(ctx context.Context, c events.Candidate) error {
		return repo.UpsertAppCompany(ctx, candidateToModel(c))
	})
	consumer.Start(consumerCtx)
	defer func() {
		stopConsumer()
		consumer.Close()
	}()

	directorySvc := controller.NewDirectoryService(repo, producer, logger)
	moderationSvc := controller.NewModerationService(repo, producer, logger)
	accountSvc := controller.NewAccountService(repo, producer, logger)
	notificationSvc := controller.NewNotificationService(repo, logger)

	handler := handlers.NewHandler(directorySvc, moderationSvc, accountSvc, notificationSvc, logger)
	router := handlers.NewRouter(handler, cfg.JWTSecret, cfg.AllowedOrigins)

	server := handlers.NewServer(cfg.HTTPPort, router, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	waitForShutdown(server, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

// loadConfig loads configuration. Use real config tooling (e.g. Viper) in production.
func loadConfig() (*Config, error) {
	configPath := filepath.Join("internal", "portal", "config", "config.yaml")
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	err = yaml.Unmarshal(file, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// initDatabase initializes the database connection config.
func initDatabase(cfg *Config) *gorm.Config {
	return &gorm.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

func candidateToModel(c events.Candidate) *models.AppCompany {
	return &models.AppCompany{
		ID:       uuid.New(),
		Name:     c.Name,
		Website:  c.Website,
		Industry: c.Industry,
		Source:   c.Source,
	}
}

// waitForShutdown blocks until an interrupt or SIGTERM is received, then shuts down the server.
func waitForShutdown(server *handlers.Server, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	server.Stop()
	logger.Info("Server stopped properly")
}
