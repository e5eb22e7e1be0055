package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/akarsenev/parkslot/config"
	"github.com/akarsenev/parkslot/internal/bootstrap"
	"github.com/akarsenev/parkslot/internal/cache"
	"github.com/akarsenev/parkslot/internal/kafka"
	"github.com/akarsenev/parkslot/internal/repository"
	"github.com/akarsenev/parkslot/internal/seed"
	"github.com/akarsenev/parkslot/internal/service/auth"
	"github.com/akarsenev/parkslot/internal/service/booking"
	"github.com/akarsenev/parkslot/internal/service/reports"
	"github.com/akarsenev/parkslot/internal/service/slots"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		slotRepo    repository.SlotRepository
		bookingRepo repository.BookingRepository
		reportRepo  repository.ReportRepository
	)
	if cfg.Database.Enabled() {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()

		slotRepo = repository.NewSlotRepository(pool)
		bookingRepo = repository.NewBookingRepository(pool)
		reportRepo = repository.NewReportRepository(pool)
	} else {
		store := repository.NewMemoryStore()
		slotRepo = store.Slots()
		bookingRepo = store.Bookings()
		reportRepo = store.Reports()

		if cfg.Parking.SeedSlots > 0 {
			if err := seed.Apply(ctx, slotRepo, seed.Slots(cfg.Parking.SeedSlots, seed.AllAvailable)); err != nil {
				log.Fatalf("seed slots: %v", err)
			}
			log.Printf("seeded %d slots into in-memory store", cfg.Parking.SeedSlots)
		}
	}

	var (
		bookingCache booking.Cache
		slotCache    slots.Cache
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Parking.SlotsCacheTTLSeconds)*time.Second)
		bookingCache = redisCache
		slotCache = redisCache
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers)
		defer p.Close()
		producer = p
	}

	var mu sync.Mutex
	bookingService := booking.NewBookingService(
		bookingRepo,
		slotRepo,
		bookingCache,
		producer,
		cfg.Kafka.BookingTopic,
		time.Duration(cfg.Parking.HoldTTLSeconds)*time.Second,
		&mu,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	slotService := slots.NewSlotService(slotRepo, bookingRepo, slotCache, bookingService, &mu)
	reportService := reports.NewReportService(reportRepo, slotRepo, &mu)
	authService := auth.NewAuthService(cfg.Admin)

	if err := bootstrap.Run(ctx, cfg, slotService, bookingService, reportService, authService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
