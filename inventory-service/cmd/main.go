package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryhttp "github.com/INNER-CIRCLE-ICD4/commerce/inventory-service/internal/http"
	"github.com/INNER-CIRCLE-ICD4/commerce/inventory-service/internal/store"
)

// Initial stock levels matching product-service seeds
var initialStock = map[string]int{
	"PRD-001": 100, // Laptop
	"PRD-002": 500, // Wireless Mouse
	"PRD-003": 300, // Mechanical Keyboard
	"PRD-004": 150, // Monitor
	"PRD-005": 200, // T-Shirt
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("inventory-service starting...")

	httpPort := getEnv("HTTP_PORT", "8082")

	memStore := store.NewMemoryStore()
	for productID, quantity := range initialStock {
		if err := memStore.SetStock(productID, quantity); err != nil {
			log.Fatalf("Failed to set initial stock for product %s: %v", productID, err)
		}
	}
	log.Printf("Initialized stock for %d products", len(initialStock))

	router := inventoryhttp.NewRouter(inventoryhttp.NewHandler(memStore))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", httpPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Inventory service listening on :%s", httpPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down inventory service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}
	if err := memStore.Close(); err != nil {
		log.Printf("Store close: %v", err)
	}
	log.Println("Inventory service stopped")
}
