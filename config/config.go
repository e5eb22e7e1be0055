package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Admin    AdminConfig    `yaml:"admin"`
	Parking  ParkingConfig  `yaml:"parking"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// Enabled reports whether a database was configured at all. With no host the
// app runs on the in-memory store instead.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type AdminConfig struct {
	Username        string `yaml:"username"`
	Password        string `yaml:"password"`
	TokenSecret     string `yaml:"token_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

type ParkingConfig struct {
	SlotsCacheTTLSeconds int `yaml:"slots_cache_ttl_seconds"`
	HoldTTLSeconds       int `yaml:"hold_ttl_seconds"`
	SeedSlots            int `yaml:"seed_slots"`
}

type WorkerConfig struct {
	OccupancySweepMinutes int `yaml:"occupancy_sweep_minutes"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
