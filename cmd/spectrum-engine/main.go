package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/spectrum-engine/internal/api"
	"github.com/miradorstack/spectrum-engine/internal/config"
	"github.com/miradorstack/spectrum-engine/internal/engine"
	"github.com/miradorstack/spectrum-engine/internal/ingest"
	"github.com/miradorstack/spectrum-engine/internal/metrics"
	"github.com/miradorstack/spectrum-engine/internal/services"
	"github.com/miradorstack/spectrum-engine/internal/spectrum"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting spectrum-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	ruleEngine, err := engine.NewRuleEngine(cfg.Engine.RulesPath, logger)
	if err != nil {
		logger.Error("failed to load rule pack", slog.Any("error", err))
		os.Exit(1)
	}

	var hop spectrum.HopDetector
	if cfg.Engine.HopProxyThreshold > 0 {
		hop = spectrum.CountThresholdHopProxy{Threshold: cfg.Engine.HopProxyThreshold}
	}

	eng := engine.New(logger, engine.Options{
		CongestionCapacity: cfg.Engine.CongestionCapacity,
		HuntCapacity:       cfg.Engine.HuntCapacity,
		TrendWindow:        cfg.Engine.TrendWindow,
		ScanInterval:       cfg.Engine.ScanInterval,
		HuntInterval:       cfg.Engine.HuntInterval,
		Rules:              ruleEngine,
		ClassifierOptions:  []spectrum.ClassifierOption{spectrum.WithHopDetector(hop)},
	})

	spectrumService := services.NewSpectrumService(logger, eng)

	server, err := api.NewServer(cfg.Server, spectrumService)
	if err != nil {
		logger.Error("failed to create gRPC server", slog.Any("error", err))
		os.Exit(1)
	}

	var mqttClient *ingest.MQTTClient
	if cfg.MQTT.Enabled {
		mqttClient, err = ingest.Connect(cfg.MQTT, logger)
		if err != nil {
			logger.Error("failed to connect to mqtt broker", slog.Any("error", err))
			os.Exit(1)
		}
		defer mqttClient.Disconnect()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	group, ctx := errgroup.WithContext(ctx)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		group.Go(func() error {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				return err
			}
			return nil
		})
	}

	if mqttClient != nil {
		ingester := ingest.NewIngester(logger, eng, mqttClient, ingest.Topics{Prefix: cfg.MQTT.TopicPrefix})
		eng.AddObserver(ingester)
		group.Go(func() error {
			return mqttClient.Run(ctx, ingester)
		})
	}

	group.Go(func() error {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("gRPC server exited", slog.Any("error", serveErr))
			return serveErr
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		server.Shutdown(shutdownCtx)

		if metricsServer != nil {
			metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelMetrics()
			if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Warn("metrics server shutdown", slog.Any("error", err))
			}
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		logger.Error("spectrum-engine stopped with error", slog.Any("error", err))
	}
	logger.Info("spectrum-engine stopped", slog.Duration("analysis_p95", spectrumService.LatencyP95()))
}
