package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	fusionhandler "expediente/internal/fusion/handler"
	fusionmetrics "expediente/internal/fusion/metrics"
	"expediente/internal/fusion/ports"
	"expediente/internal/fusion/review"
	"expediente/internal/fusion/service"
	"expediente/internal/platform/config"
	"expediente/internal/platform/httpserver"
	"expediente/internal/platform/kafka"
	"expediente/internal/platform/logger"
	"expediente/internal/platform/metrics"
	httptransport "expediente/internal/transport/http"
	"expediente/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}
	settings, err := service.SettingsFromProfile(profile)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	kafkaClient, err := kafka.New(cfg.Review, "expediente-fusion")
	if err != nil {
		return err
	}
	health := map[string]httptransport.HealthCheck{}
	var publisher ports.ReviewPublisher
	if kafkaClient != nil {
		defer func() {
			if err := kafkaClient.Close(); err != nil {
				log.Warn("kafka flush on close failed", "error", err)
			}
		}()
		publisher = review.NewBreakerPublisher(
			review.NewKafkaPublisher(kafkaClient, cfg.Review.Topic, review.WithKafkaLogger(log)),
			review.NewLogPublisher(log),
			circuit.New("review_broker"),
			log,
		)
		health["review_broker"] = kafkaClient.Health
		log.Info("review tickets go to kafka", "topic", cfg.Review.Topic, "brokers", cfg.Review.Brokers)
	} else {
		publisher = review.NewLogPublisher(log)
		log.Info("no review brokers configured; review tickets are logged")
	}

	svc, err := service.New(
		service.WithSettings(settings),
		service.WithWorkers(cfg.Workers),
		service.WithPublisher(publisher),
		service.WithExtractTimeout(cfg.ExtractTimeout),
		service.WithLogger(log),
		service.WithMetrics(fusionmetrics.New(reg)),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Health:   health,
	}, fusionhandler.New(svc, log, fusionhandler.WithSanitizer(settings.Sanitizer())))

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting expediente fusion server", "addr", cfg.Addr)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("expediente fusion server stopped")
	return nil
}
