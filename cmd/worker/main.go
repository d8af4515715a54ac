package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"classattend/internal/config"
	"classattend/internal/queue"
	"classattend/internal/store"
)

// Worker consumes mark events and keeps the per-subject daily counters in
// redis current, so the admin summary can show live numbers without
// querying the primary store.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)
	if !redisClient.Healthy(ctx) {
		log.Printf("WARNING: redis not reachable at %s; counters will fail until it is", cfg.RedisAddr)
	}

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendance:marks")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeMarked {
			continue
		}

		evt, err := queue.DecodeMarked(msg.Body)
		if err != nil {
			log.Printf("bad mark event: %v", err)
			continue
		}

		if err := redisClient.IncrDailyCount(ctx, evt.Date, evt.Subject); err != nil {
			log.Printf("counter update failed for %s/%s: %v", evt.Date, evt.Subject, err)
			continue
		}
		log.Printf("counted mark: %s %s roll=%s", evt.Date, evt.Subject, evt.RollNumber)
	}

	log.Println("worker stopped")
}
