package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/otplabs/otp-gateway/internal/config"
	"github.com/otplabs/otp-gateway/internal/httpapi"
	"github.com/otplabs/otp-gateway/internal/metrics"
	"github.com/otplabs/otp-gateway/internal/ratelimit"
	"github.com/otplabs/otp-gateway/internal/service"
	"github.com/otplabs/otp-gateway/internal/sms"
	"github.com/otplabs/otp-gateway/internal/stats"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if !cfg.ProviderConfigured() {
		log.Printf("twilio credentials missing, running in simulated delivery mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateWindow)
	limiter.StartJanitor(ctx, cfg.RateIdleTTL, cfg.RateSweepEver)

	httpClient := &http.Client{Timeout: cfg.SMSTimeout}
	sender := sms.NewTwilioSender(httpClient, cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioNumber)

	var recorder stats.Recorder
	if cfg.RedisURL != "" {
		options, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis url invalid: %v", err)
		}
		rdb := redis.NewClient(options)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis ping failed, admission stats disabled: %v", err)
		} else {
			recorder = stats.NewRedisRecorder(rdb)
			defer rdb.Close()
		}
	}

	gatewayMetrics := metrics.New()
	appService := service.New(cfg, limiter, sender, recorder, gatewayMetrics)
	router := httpapi.NewRouter(appService, gatewayMetrics.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("otp-gateway listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
}
