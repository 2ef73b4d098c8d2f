package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/tastebite/checkout/config"
	"github.com/tastebite/checkout/internal/adapter/gateway"
	"github.com/tastebite/checkout/internal/adapter/handler"
	"github.com/tastebite/checkout/internal/adapter/notify"
	"github.com/tastebite/checkout/internal/adapter/storage"
	"github.com/tastebite/checkout/internal/core/service"
	"github.com/tastebite/checkout/internal/middleware"
	"github.com/tastebite/checkout/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conf := config.FromEnv()

	// MySQL
	db, err := sqlx.Open("mysql", conf.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Redis (cart store)
	rdb := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Adapters
	store := storage.NewMySQLAdapter(db)
	carts := storage.NewRedisAdapter(rdb)
	payments := gateway.NewClient(conf.GatewayURL, conf.GatewayKey)
	notifier := notify.NewWebhookNotifier(conf.NotifierURL)

	// Service
	orders := service.NewOrderService(store, store, carts, payments,
		conf.ReturnBaseURL, conf.QueueSize)

	// Notification workers: confirmation emails are fire-and-forget from the
	// request's point of view; failures are logged here and nowhere else.
	var wg sync.WaitGroup
	for i := 0; i < conf.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			notifyLoop(id, orders.Notifications(), notifier)
		}(i)
	}
	log.Printf("started %d notification workers", conf.WorkerCount)

	// HTTP server
	httpHandler := handler.NewHTTPHandler(orders)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", httpHandler.HealthCheck)
	mux.HandleFunc("POST /payment/create", httpHandler.CreateCheckout)
	mux.HandleFunc("POST /orders/verify", httpHandler.VerifyOrder)
	mux.HandleFunc("GET /orders/{id}", httpHandler.GetOrder)
	mux.HandleFunc("GET /orders", httpHandler.ListOrders)
	mux.HandleFunc("DELETE /orders", httpHandler.ClearHistory)

	httpServer := &http.Server{
		Addr:    conf.HTTPAddr,
		Handler: middleware.Logging(mux),
	}

	go func() {
		log.Printf("HTTP server listening on %s", conf.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Drain the notification queue before closing connections.
	orders.Close()
	wg.Wait()
	log.Println("notification workers stopped")

	rdb.Close()
	db.Close()
	log.Println("connections closed")
}

func notifyLoop(id int, queue <-chan service.Notification, notifier port.Notifier) {
	for n := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)

		if err := notifier.Send(ctx, n.Email, n.Order); err != nil {
			log.Printf("worker %d: failed to send confirmation for order %s: %v", id, n.Order.ID, err)
		} else {
			log.Printf("worker %d: sent confirmation for order %s to %s", id, n.Order.ID, n.Email)
		}

		cancel()
	}
}
