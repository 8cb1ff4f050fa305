package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig agrega a configuração de runtime, injetada por variáveis de
// ambiente para evitar valores hardcoded.
type AppConfig struct {
	HTTPAddr string
	DBPath   string
	Debug    bool

	RedisAddr string
	RedisDB   int

	// Kafka: brokers (separados por vírgula), tópico de eventos de pedido
	// e tópico + grupo do consumidor de eventos de pagamento.
	KafkaBrokers      []string
	OrderEventsTopic  string
	PaymentTopic      string
	PaymentGroupID    string

	// Redis Stream outbox (API grava no stream, Relay repassa ao Kafka).
	OrderEventStream   string
	OrderEventGroup    string
	OrderEventConsumer string

	// Autenticação.
	JWTSecret string
	JWTTTL    time.Duration

	// Conta administrativa criada no primeiro boot, se ausente.
	AdminEmail    string
	AdminPassword string

	// Regras de precificação do checkout: frete fixo e imposto percentual,
	// ambos aplicados sobre o subtotal em centavos.
	ShippingFee    int64
	TaxRatePercent int64
	// CouponStrict: true rejeita cupom inválido/expirado com erro;
	// false (padrão) ignora silenciosamente.
	CouponStrict bool

	// URL base do gateway usada para montar o link de pagamento.
	PaymentBaseURL string

	// Limite de requisições do endpoint de criação de pedido.
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
}

// Load lê e valida a configuração, com defaults para uso local.
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DBPath:             getEnv("DB_PATH", "loja.db"),
		Debug:              getEnv("DEBUG", "") != "",
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            0,
		KafkaBrokers:       splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		OrderEventsTopic:   getEnv("ORDER_EVENTS_TOPIC", "loja-order-events"),
		PaymentTopic:       getEnv("PAYMENT_EVENTS_TOPIC", "loja-payment-events"),
		PaymentGroupID:     getEnv("PAYMENT_EVENTS_GROUP", "loja-payment-consumer"),
		OrderEventStream:   getEnv("ORDER_EVENT_STREAM", "loja:order_events"),
		OrderEventGroup:    getEnv("ORDER_EVENT_GROUP", "loja-relay-group"),
		OrderEventConsumer: getEnv("ORDER_EVENT_CONSUMER", "loja-relay-1"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-change-me"),
		JWTTTL:             24 * time.Hour,
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@loja.local"),
		AdminPassword:      getEnv("ADMIN_PASSWORD", "admin-dev-senha"),
		ShippingFee:        1500,
		TaxRatePercent:     12,
		CouponStrict:       getEnv("COUPON_STRICT", "") != "",
		PaymentBaseURL:     getEnv("PAYMENT_BASE_URL", "https://pagamentos.example.com"),
		CheckoutRateLimit:  30,
		CheckoutRateWindow: time.Minute,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	ttlHours, err := getEnvInt("JWT_TTL_HOUR", int(cfg.JWTTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid JWT_TTL_HOUR: %w", err)
	}
	if ttlHours <= 0 {
		return AppConfig{}, fmt.Errorf("JWT_TTL_HOUR must be > 0")
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	shipping, err := getEnvInt("SHIPPING_FEE_CENTS", int(cfg.ShippingFee))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid SHIPPING_FEE_CENTS: %w", err)
	}
	if shipping < 0 {
		return AppConfig{}, fmt.Errorf("SHIPPING_FEE_CENTS must be >= 0")
	}
	cfg.ShippingFee = int64(shipping)

	taxRate, err := getEnvInt("TAX_RATE_PERCENT", int(cfg.TaxRatePercent))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid TAX_RATE_PERCENT: %w", err)
	}
	if taxRate < 0 || taxRate > 100 {
		return AppConfig{}, fmt.Errorf("TAX_RATE_PERCENT must be in [0,100]")
	}
	cfg.TaxRatePercent = int64(taxRate)

	rateLimit, err := getEnvInt("CHECKOUT_RATE_LIMIT", cfg.CheckoutRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_LIMIT must be > 0")
	}
	cfg.CheckoutRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", int(cfg.CheckoutRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(rateWindowSec) * time.Second

	if cfg.JWTSecret == "" {
		return AppConfig{}, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return AppConfig{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if cfg.OrderEventsTopic == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENTS_TOPIC must not be empty")
	}
	if cfg.PaymentTopic == "" {
		return AppConfig{}, fmt.Errorf("PAYMENT_EVENTS_TOPIC must not be empty")
	}
	if cfg.PaymentGroupID == "" {
		return AppConfig{}, fmt.Errorf("PAYMENT_EVENTS_GROUP must not be empty")
	}
	if cfg.OrderEventStream == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENT_STREAM must not be empty")
	}
	if cfg.OrderEventGroup == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENT_GROUP must not be empty")
	}
	if cfg.OrderEventConsumer == "" {
		return AppConfig{}, fmt.Errorf("ORDER_EVENT_CONSUMER must not be empty")
	}

	return cfg, nil
}

// getEnv lê uma variável de ambiente string, com fallback.
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt lê uma variável de ambiente inteira, com fallback.
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV divide uma lista separada por vírgulas.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
