package app

import (
	"fmt"
	"os"

	"github.com/vladislavdragonenkov/checkout/internal/checkout"
	"github.com/vladislavdragonenkov/checkout/internal/messaging/kafka"
)

// Config описывает настройки запуска сервиса.
type Config struct {
	// HTTPAddr — адрес основного HTTP API.
	HTTPAddr string
	// MetricsAddr — адрес метрик и health-проб.
	MetricsAddr string
	// PostgresDSN включает PostgreSQL-хранилище; пустой — in-memory.
	PostgresDSN string
	// RedisAddr включает Redis-хранилище сессионных корзин.
	RedisAddr string
	// RedisPassword — пароль Redis, может быть пустым.
	RedisPassword string
	// KafkaBrokers включает публикацию событий заказов (список через запятую).
	KafkaBrokers string
	// OutboxTopic — topic событий заказов.
	OutboxTopic string
	// DLQTopic — topic для сообщений, не доставленных после retry.
	DLQTopic string
	// PromoCodes — таблица промокодов в формате "FREE:100,HALF:50".
	PromoCodes map[string]checkout.PromoRule
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
		OutboxTopic: kafka.TopicOrderEvents,
		DLQTopic:    kafka.TopicDeadLetterQueue,
		PromoCodes:  checkout.DefaultPromoCodes(),
	}
}

// LoadConfigFromEnv читает конфигурацию из переменных окружения CHECKOUT_*.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if addr := os.Getenv("CHECKOUT_HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	}
	if addr := os.Getenv("CHECKOUT_METRICS_ADDR"); addr != "" {
		cfg.MetricsAddr = addr
	}
	cfg.PostgresDSN = os.Getenv("CHECKOUT_POSTGRES_DSN")
	cfg.RedisAddr = os.Getenv("CHECKOUT_REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("CHECKOUT_REDIS_PASSWORD")
	cfg.KafkaBrokers = os.Getenv("CHECKOUT_KAFKA_BROKERS")
	if topic := os.Getenv("CHECKOUT_OUTBOX_TOPIC"); topic != "" {
		cfg.OutboxTopic = topic
	}
	if topic := os.Getenv("CHECKOUT_DLQ_TOPIC"); topic != "" {
		cfg.DLQTopic = topic
	}

	if raw := os.Getenv("CHECKOUT_PROMO_CODES"); raw != "" {
		codes, err := checkout.ParsePromoCodes(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHECKOUT_PROMO_CODES: %w", err)
		}
		if len(codes) > 0 {
			cfg.PromoCodes = codes
		}
	}

	return cfg, nil
}
