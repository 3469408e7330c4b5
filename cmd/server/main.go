package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kultmet/grocery-store/internal/config"
	"github.com/kultmet/grocery-store/internal/es"
	"github.com/kultmet/grocery-store/internal/httpserver"
	"github.com/kultmet/grocery-store/internal/logging"
	"github.com/kultmet/grocery-store/internal/mykafka"
	"github.com/kultmet/grocery-store/internal/repo"
	"github.com/kultmet/grocery-store/internal/service"
	"github.com/kultmet/grocery-store/internal/service/search"
	loggingmw "github.com/kultmet/grocery-store/pkg/middleware/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{
		DB: db,
	}

	cartService := &service.CartService{
		Repo: gormRepo,
	}

	var producer *mykafka.Producer
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		producer = mykafka.NewProducer(brokers)
		defer producer.Close()
	}

	deps := &httpserver.Deps{
		CartHandler: &httpserver.CartHTTP{
			Svc:      cartService,
			Producer: producer,
		},
		JWTSecret: []byte(cfg.JWT_SECRET),
	}

	if cfg.ES_URL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}

		indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		products, err := gormRepo.ListProducts(indexCtx)
		if err == nil {
			err = search.IndexAll(indexCtx, esClient, products)
		}
		cancel()
		if err != nil {
			logger.Warn("product index fill failed", "error", err)
		}

		deps.SearchHandler = &httpserver.SearchHTTP{ES: esClient}
	}

	httpserver.Register(e, deps)

	port := cfg.SERVER_PORT
	if port == "" {
		port = "8080"
	}

	go func() {
		log.Printf("Starting server on port %s...", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped")
}
