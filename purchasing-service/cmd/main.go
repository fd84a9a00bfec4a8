package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/cache"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/clients"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/domain"
	purchasinghttp "github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/http"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/publisher"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/repository"
	"github.com/INNER-CIRCLE-ICD4/commerce/purchasing-service/internal/service"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("purchasing-service starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8080")
	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")
	productServiceURL := getEnv("PRODUCT_SERVICE_URL", "http://localhost:8081")
	inventoryServiceURL := getEnv("INVENTORY_SERVICE_URL", "http://localhost:8082")
	clientTimeout := 5 * time.Second
	requestTimeout := 30 * time.Second

	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDBName := getEnv("MONGO_DB_NAME", "purchasing")

	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "purchasing")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		log.Fatalf("Invalid DB_PORT %q: %v", dbPort, err)
	}

	clock := domain.SystemClock()

	// MongoDB holds carts
	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, mongoURI, mongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := repository.CreateCartIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	cartRepo := repository.NewMongoRepository(mongoDB, clock)
	log.Printf("Connected to MongoDB at %s", mongoURI)

	// Postgres holds orders and the outbox
	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	orderRepo, err := repository.NewPostgresRepository(creds, clock)
	if err != nil {
		log.Fatalf("Failed to open orders database: %v", err)
	}
	defer orderRepo.Close()

	if err := orderRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run order migrations: %v", err)
	}
	log.Println("Order migrations completed")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")
	cartCache := cache.NewRedisCache(redisClient, clock)

	productClient := clients.NewProductClient(productServiceURL, clientTimeout)
	inventoryClient := clients.NewInventoryClient(inventoryServiceURL, clientTimeout)

	cartService := service.NewCartService(cartRepo, cartCache, productClient, inventoryClient, clock)
	orderService := service.NewOrderService(orderRepo, cartRepo, productClient, inventoryClient, clock)

	// Outbox poller ships order events to Kafka
	poller := publisher.NewOutboxPoller(orderRepo, strings.Split(kafkaBrokers, ",")...)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	router := purchasinghttp.NewRouter(
		purchasinghttp.NewCartHandler(cartService),
		purchasinghttp.NewOrderHandler(orderService),
		requestTimeout,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", httpPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Purchasing service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down purchasing service...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}

	pollerCancel()
	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Outbox poller stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("Outbox poller didn't stop in time")
	}

	if err := poller.Close(); err != nil {
		log.Printf("Kafka writer close: %v", err)
	}
	mongoDB.Client().Disconnect(ctx)
	log.Println("Purchasing service stopped")
}
