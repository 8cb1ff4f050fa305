package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loja_backend/internal/auth"
	"loja_backend/internal/checkout"
	"loja_backend/internal/config"
	"loja_backend/internal/logging"
	"loja_backend/internal/model"
	"loja_backend/internal/queue"
	"loja_backend/internal/router"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logging.New("server", cfg.Debug)

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Error("db open", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Error("db migrate", "err", err)
		os.Exit(1)
	}
	if err := seedAdmin(db, cfg); err != nil {
		log.Error("seed admin", "err", err)
		os.Exit(1)
	}

	rdb := rd.NewClient(&rd.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer rdb.Close()

	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
	defer producer.Close()

	outbox := queue.NewOutbox(rdb, cfg.OrderEventStream)
	svc := checkout.NewService(db, cfg, log.With("component", "checkout"), outbox)

	relay := queue.NewRelay(rdb, producer, log.With("component", "relay"),
		cfg.OrderEventStream, cfg.OrderEventGroup, cfg.OrderEventConsumer)
	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.PaymentTopic, cfg.PaymentGroupID,
		rdb, svc, log.With("component", "payment-consumer"))
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go relay.Run(ctx)
	go consumer.Run(ctx)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	router.Setup(r, db, rdb, svc, cfg)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", "err", err)
	}
}

// seedAdmin garante uma conta administrativa no primeiro boot.
func seedAdmin(db *gorm.DB, cfg config.AppConfig) error {
	var count int64
	if err := db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	return db.Create(&model.User{
		Name:         "Administrador",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}).Error
}
