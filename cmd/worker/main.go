package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akarsenev/parkslot/config"
	"github.com/akarsenev/parkslot/internal/kafka"
	"github.com/akarsenev/parkslot/internal/notify"
	"github.com/akarsenev/parkslot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatal("worker requires a configured database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	slotRepo := repository.NewSlotRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	sweepMinutes := cfg.Worker.OccupancySweepMinutes
	if sweepMinutes <= 0 {
		sweepMinutes = 5
	}
	sweepTicker := time.NewTicker(time.Duration(sweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			slots, err := slotRepo.List(ctx)
			if err != nil {
				log.Printf("occupancy sweep error: %v", err)
				continue
			}
			held := 0
			for _, s := range slots {
				if s.Status.Held() {
					held++
				}
			}
			rate := 0.0
			if len(slots) > 0 {
				rate = float64(held) / float64(len(slots)) * 100
			}
			log.Printf("occupancy: %d/%d slots held (%.1f%%)", held, len(slots), rate)
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
