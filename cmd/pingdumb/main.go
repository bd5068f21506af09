package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	apihttp "ozzus/pingdumb/internal/api/http"
	"ozzus/pingdumb/internal/backend"
	"ozzus/pingdumb/internal/checks"
	"ozzus/pingdumb/internal/config"
	"ozzus/pingdumb/internal/domain"
	"ozzus/pingdumb/internal/lib/logger/sl"
	"ozzus/pingdumb/internal/lib/logger/slogpretty"
	"ozzus/pingdumb/internal/repository"
	"ozzus/pingdumb/internal/repository/kafka"
	"ozzus/pingdumb/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log, level, closeLog := setupLogger(cfg)
	defer closeLog()

	instance := instanceName(cfg)
	log.Info("starting pingdumb",
		slog.String("env", cfg.Env),
		slog.String("instance", instance),
	)

	config.Watch(func(next *config.Config) {
		level.Set(logLevel(next))
		log.Info("config reloaded", slog.String("log_level", level.Level().String()))
	}, func(err error) {
		log.Error("config reload failed", sl.Err(err))
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, instance, log); err != nil {
		log.Error("pingdumb stopped with error", sl.Err(err))
		os.Exit(1)
	}

	log.Info("pingdumb stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, instance string, log *slog.Logger) error {
	store, err := repository.New(ctx, cfg.Storage.URI)
	if err != nil {
		return err
	}
	defer store.Close()

	log.Info("storage ready", slog.String("uri_scheme", schemeOf(cfg.Storage.URI)))

	var publishers []service.SinkOption

	if cfg.Kafka.Enabled {
		resultsProducer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Results)
		defer resultsProducer.Close()

		publishers = append(publishers, service.WithPublisher(repository.NewKafkaResultRepository(resultsProducer, log)))
	}

	var backendClient *backend.Client
	if cfg.Backend.URL != "" {
		backendClient, err = backend.NewClient(cfg.Backend.URL, instance, cfg.Backend.Token)
		if err != nil {
			return err
		}
		publishers = append(publishers, service.WithPublisher(backendClient))
	}

	registry := checks.NewDefaultRegistry(checks.Config{
		PingMode:          cfg.Checks.Ping.Mode,
		PingPrivileged:    cfg.Checks.Ping.Privileged,
		PingCount:         cfg.Checks.Ping.Count,
		TracerouteMaxHops: cfg.Checks.Traceroute.MaxHops,
		ResolvConf:        cfg.Checks.DNS.ResolvConf,
		FallbackServers:   cfg.Checks.DNS.FallbackServers,
		OoklaBinary:       cfg.Checks.Ookla.Binary,
		IPerf3Binary:      cfg.Checks.IPerf3.Binary,
		IPerf3Duration:    cfg.Checks.IPerf3.Duration,
		FastURLCount:      cfg.Checks.Fast.URLCount,
		FastDuration:      cfg.Checks.Fast.Duration,
	})
	log.Debug("probes registered", slog.Any("kinds", registry.Kinds()))

	engine := service.NewEngine(registry, log, service.WithKillGrace(cfg.Scheduler.KillGrace))
	sink := service.NewResultSink(store, log, publishers...)

	scheduler := service.NewScheduler(store, engine, sink, log, service.SchedulerConfig{
		TickInterval:   cfg.Scheduler.TickInterval,
		PublishTimeout: cfg.Scheduler.PublishTimeout,
	})

	definitions := service.NewDefinitionService(store, scheduler, log)
	results := service.NewResultService(store, cfg.Storage.ResultsLimit)

	if cfg.Storage.SeedDefaults {
		n, err := definitions.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("seeded default checks", slog.Int("count", n))
		}
	}

	router := apihttp.NewRouter(apihttp.Controllers{
		Health: apihttp.NewHealthController(scheduler, instance, func() gin.H {
			return gin.H{
				"subscribers": sink.SubscriberCount(),
				"kafka":       cfg.Kafka.Enabled,
				"backend":     backendClient != nil,
			}
		}),
		Definitions: apihttp.NewDefinitionsController(definitions),
		Results:     apihttp.NewResultsController(results),
		WS:          apihttp.NewWSController(sink, cfg.Server.AllowedOrigins, log),
	}, cfg.Server.AllowedOrigins, log)

	httpServer := &nethttp.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scheduler.Start(gctx)
	})

	g.Go(func() error {
		log.Info("starting http server", slog.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Definitions, cfg.Kafka.GroupID, log)
		defer consumer.Close()

		if err := consumer.CheckConnection(ctx); err != nil {
			log.Warn("kafka is not reachable yet, definition feed will keep retrying", sl.Err(err))
		}

		feed := service.NewDefinitionFeed(repository.NewKafkaDefinitionEventRepository(consumer, log), definitions, log)
		g.Go(func() error {
			return feed.Start(gctx)
		})
	}

	if backendClient != nil {
		g.Go(func() error {
			backendClient.RunHeartbeat(gctx, cfg.Backend.HeartbeatInterval, func() domain.Heartbeat {
				status := scheduler.Status()
				hb := domain.Heartbeat{
					Scheduled:   len(status.Entries),
					Subscribers: sink.SubscriberCount(),
				}
				for _, e := range status.Entries {
					if e.Running {
						hb.Running++
					}
				}
				return hb
			}, log)
			return nil
		})
	}

	log.Info("pingdumb started",
		slog.String("address", cfg.Server.Address),
		slog.Bool("kafka", cfg.Kafka.Enabled),
		slog.Bool("backend", backendClient != nil),
	)

	return g.Wait()
}

func instanceName(cfg *config.Config) string {
	if cfg.Backend.Name != "" {
		return cfg.Backend.Name
	}
	if host, err := os.Hostname(); err == nil {
		return host
	}
	return "pingdumb"
}

func schemeOf(uri string) string {
	scheme, _, _ := strings.Cut(uri, "://")
	return scheme
}

func setupLogger(cfg *config.Config) (*slog.Logger, *slog.LevelVar, func()) {
	level := &slog.LevelVar{}
	level.Set(logLevel(cfg))

	opts := &slog.HandlerOptions{Level: level}

	var (
		out     io.Writer = os.Stdout
		closeFn           = func() {}
	)
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			log.Printf("Warning: cannot create log dir: %v", err)
		} else {
			rotator := &lumberjack.Logger{
				Filename:   cfg.Log.File,
				MaxSize:    cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				MaxAge:     cfg.Log.MaxAgeDays,
				Compress:   true,
			}
			out = io.MultiWriter(os.Stdout, rotator)
			closeFn = func() { _ = rotator.Close() }
		}
	}

	var handler slog.Handler
	switch cfg.Env {
	case config.EnvDev, config.EnvProd:
		handler = slog.NewJSONHandler(out, opts)
	default:
		prettyOpts := slogpretty.PrettyHandlerOptions{SlogOpts: opts}
		handler = prettyOpts.NewPrettyHandler(out)
	}

	return slog.New(handler), level, closeFn
}

// logLevel honours log.level when it parses, otherwise the env default:
// debug for local and dev, info for prod.
func logLevel(cfg *config.Config) slog.Level {
	if cfg.Log.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(cfg.Log.Level)); err == nil {
			return l
		}
	}
	if cfg.Env == config.EnvProd {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}
