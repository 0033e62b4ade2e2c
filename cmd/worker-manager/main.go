// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"visa-eligibility-workers/internal/common/camunda"
	"visa-eligibility-workers/internal/common/config"
	"visa-eligibility-workers/internal/common/database"
	commonhttp "visa-eligibility-workers/internal/common/http"
	"visa-eligibility-workers/internal/common/logger"
	"visa-eligibility-workers/internal/common/observability"
	"visa-eligibility-workers/internal/eligibility"
	"visa-eligibility-workers/internal/profile"
	"visa-eligibility-workers/internal/rules/assistant"
	"visa-eligibility-workers/internal/rules/cleaner"
	"visa-eligibility-workers/internal/rules/extraction"
	"visa-eligibility-workers/internal/rules/fetcher"
	"visa-eligibility-workers/internal/rules/mapper"
	"visa-eligibility-workers/internal/rules/store"
	"visa-eligibility-workers/internal/scoring"

	eve "visa-eligibility-workers/internal/workers/eligibility/evaluate-eligibility"
	evo "visa-eligibility-workers/internal/workers/eligibility/evaluate-visa-options"
	san "visa-eligibility-workers/internal/workers/notification/send-assessment-notification"
	nap "visa-eligibility-workers/internal/workers/profile/normalize-applicant-profile"
	evr "visa-eligibility-workers/internal/workers/rules/extract-visa-rules"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting worker manager",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("failed to initialize observability", zap.Error(err))
	}
	defer obs.Shutdown()

	// Camunda connection. The broker is usually the last dependency to come
	// up in docker-compose, so retry generously.
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var cerr error
		camundaClient, cerr = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.Timeout),
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return cerr
	}, 10, 2*time.Second, zapLog, "camunda")
	if err != nil {
		zapLog.Fatal("failed to connect to Camunda broker", zap.Error(err))
	}
	defer camundaClient.Close()
	zeebeClient := camundaClient.GetClient()

	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var perr error
		pg, perr = database.NewPostgres(cfg.Database.Postgres)
		if perr != nil {
			return perr
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 15, 2*time.Second, zapLog, "postgres")
	if err != nil {
		zapLog.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pg.Close()

	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var rerr error
		rdb, rerr = database.NewRedis(cfg.Database.Redis)
		if rerr != nil {
			return rerr
		}
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 15, 2*time.Second, zapLog, "redis")
	if err != nil {
		zapLog.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	// Rule set store: postgres is the source of truth, redis is a
	// read-through cache, elasticsearch indexing is optional.
	var ruleStore store.Store = store.NewPostgresStore(pg)
	ruleStore = store.NewCachedStore(ruleStore, rdb, time.Duration(cfg.Extraction.CacheTTL)*time.Second, log)

	if cfg.Extraction.IndexEnabled {
		var es *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var eerr error
			es, eerr = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if eerr != nil {
				return eerr
			}
			// NewClient does not dial; only the ping proves the cluster is up.
			return es.Ping()
		}, 10, 2*time.Second, zapLog, "elasticsearch")
		if err != nil {
			zapLog.Fatal("failed to connect to Elasticsearch", zap.Error(err))
		}
		ruleStore = store.NewIndexedStore(ruleStore, es, cfg.Extraction.Index, log)
	}

	// Extraction pipeline. The assistant refinement step is optional: with
	// no API key configured the pipeline runs on heuristics alone.
	var structurer assistant.Structurer
	if cfg.APIs.GenAI.APIKey != "" {
		gemini, gerr := assistant.NewGeminiStructurer(
			context.Background(), cfg.APIs.GenAI.APIKey, cfg.APIs.GenAI.Model, log)
		if gerr != nil {
			zapLog.Warn("assistant unavailable, extraction will use heuristics only", zap.Error(gerr))
		} else {
			structurer = gemini
		}
	} else {
		zapLog.Info("no GenAI API key configured, extraction will use heuristics only")
	}

	pageFetcher := fetcher.New(commonhttp.NewClient(config.GetDuration(cfg.Extraction.FetchTimeout)), log)
	extractionService := extraction.NewService(
		pageFetcher,
		structurer,
		cleaner.NewDefault(),
		mapper.NewDefault(),
		ruleStore,
		log,
		extraction.WithAssistantTimeout(config.GetDuration(cfg.APIs.GenAI.Timeout)),
		extraction.WithSourceOverrides(cfg.Extraction.SourceOverrides),
	)

	eligibilityService := eligibility.NewService(ruleStore, eligibility.NewEvaluator(), log)
	scorer := scoring.NewScorer()
	normalizer := profile.NewNormalizer()

	var workers []*camunda.Worker
	register := func(taskType string, handler camunda.HandlerFunc) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		w := camunda.NewWorker(zeebeClient, taskType, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, handler, zapLog)
		workers = append(workers, w)
		obs.WorkerRegistered(context.Background(), taskType)
	}

	if config.IsWorkerEnabled(cfg, evr.TaskType) {
		handler := evr.NewHandler(evr.LoadConfig(), extractionService, log)
		register(evr.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, nap.TaskType) {
		handler := nap.NewHandler(nap.LoadConfig(), normalizer, log)
		register(nap.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, eve.TaskType) {
		handler := eve.NewHandler(eve.LoadConfig(), eligibilityService, scorer, log)
		register(eve.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, evo.TaskType) {
		handler := evo.NewHandler(evo.LoadConfig(), eligibilityService, scorer, log)
		register(evo.TaskType, handler.Handle)
	}

	if config.IsWorkerEnabled(cfg, san.TaskType) {
		notifCfg := san.LoadConfig()
		notifCfg.EmailEnabled = cfg.Notifications.Email.Enabled
		notifCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
		if cfg.Notifications.Email.FromEmail != "" {
			notifCfg.FromEmail = cfg.Notifications.Email.FromEmail
		}
		if cfg.Notifications.SMS.PriorityThreshold != "" {
			notifCfg.SMSPriorityThreshold = cfg.Notifications.SMS.PriorityThreshold
		}
		if cfg.Notifications.AWS.Region != "" {
			notifCfg.AWSRegion = cfg.Notifications.AWS.Region
		}
		handler, herr := san.NewHandler(notifCfg, pg.DB, log)
		if herr != nil {
			zapLog.Fatal("failed to initialize notification worker", zap.Error(herr))
		}
		register(san.TaskType, handler.Handle)
	}

	if len(workers) == 0 {
		zapLog.Fatal("no workers enabled, check the workers section of the configuration")
	}
	zapLog.Info("all workers registered", zap.Int("count", len(workers)))

	go serveHealth(camundaClient, pg, zapLog)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	zapLog.Info("shutdown signal received", zap.String("signal", sig.String()))

	for _, w := range workers {
		w.Close()
		obs.WorkerStopped(context.Background(), w.TaskType())
	}
	zapLog.Info("worker manager stopped")
}

// retryWithBackoff retries operation with exponential backoff until it
// succeeds or maxRetries is exhausted.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, name string) error {
	var err error
	delay := initialDelay

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = operation(); err == nil {
			if attempt > 1 {
				log.Info("dependency connected after retry",
					zap.String("dependency", name),
					zap.Int("attempt", attempt),
				)
			}
			return nil
		}

		log.Warn("dependency not ready",
			zap.String("dependency", name),
			zap.Int("attempt", attempt),
			zap.Int("maxRetries", maxRetries),
			zap.Duration("nextRetryIn", delay),
			zap.Error(err),
		)

		if attempt < maxRetries {
			time.Sleep(delay)
			delay *= 2
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
		}
	}

	return fmt.Errorf("%s not available after %d attempts: %w", name, maxRetries, err)
}

// serveHealth exposes liveness, readiness and Prometheus metrics on :8080.
func serveHealth(camundaClient *camunda.Client, pg *database.PostgresClient, log *zap.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		code := http.StatusOK
		checks := map[string]string{"camunda": "ok", "postgres": "ok"}

		if err := camundaClient.HealthCheck(ctx); err != nil {
			checks["camunda"] = err.Error()
			status = "not ready"
			code = http.StatusServiceUnavailable
		}
		if err := pg.DB.PingContext(ctx); err != nil {
			checks["postgres"] = err.Error()
			status = "not ready"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	mux.Handle("/metrics", promhttp.Handler())

	log.Info("health and metrics server listening", zap.String("addr", ":8080"))
	if err := http.ListenAndServe(":8080", mux); err != nil {
		log.Error("health server stopped", zap.Error(err))
	}
}
