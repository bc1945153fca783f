// cmd/workflow-manager/main.go
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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"scholarship-workflow/internal/audit"
	"scholarship-workflow/internal/common/config"
	"scholarship-workflow/internal/common/database"
	"scholarship-workflow/internal/common/logger"
	"scholarship-workflow/internal/common/observability"
	"scholarship-workflow/internal/directory"
	"scholarship-workflow/internal/notify"
	"scholarship-workflow/internal/store"
	"scholarship-workflow/internal/workflow"

	sa "scholarship-workflow/internal/workers/application/submit-application"
	ws "scholarship-workflow/internal/workers/application/workflow-state"
	sd "scholarship-workflow/internal/workers/review/submit-decision"
	sg "scholarship-workflow/internal/workers/review/submit-grade"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting workflow manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("workflow-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Zeebe.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Application Store ---
	appStore := store.NewPostgresStore(pg.DB)

	// --- Scholarship Directory, optionally cached through Redis ---
	var dir directory.ScholarshipDirectory = directory.NewPostgresDirectory(pg.DB)
	if cfg.Directory.CacheEnabled {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		ttl := time.Duration(cfg.Directory.CacheTTLSeconds) * time.Second
		dir = directory.NewCached(dir, redisClient.Client, ttl, log)
	}

	// --- Audit Trail ---
	var trail audit.Recorder = audit.Nop{}
	if cfg.Audit.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		trail = audit.NewTrail(esClient.Client, cfg.Audit.Index, log)
	}

	// --- Decision Notifier ---
	var notifier notify.Notifier = notify.Nop{}
	if cfg.Notifications.Enabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Notifications.AWSRegion))
		if err != nil {
			zapLog.Fatal("load AWS config failed", zap.Error(err))
		}
		notifier = notify.NewAWSNotifier(
			notify.AWSConfig{
				FromAddress: cfg.Notifications.FromAddress,
				FromName:    cfg.Notifications.FromName,
				TopicARN:    cfg.Notifications.TopicARN,
			},
			ses.NewFromConfig(awsCfg),
			sns.NewFromConfig(awsCfg),
			notify.NewPostgresRecipients(pg.DB),
			log,
		)
		zapLog.Info("AWS notifier initialized")
	}

	// --- Workflow Engine ---
	engine := workflow.NewEngine(appStore, workflow.NewResolver(dir), notifier, trail, log)

	// --- Register Workers ---
	if cfg.Workers[sa.TaskType].Enabled {
		handler, err := sa.NewHandler(
			&sa.Config{
				Timeout: time.Duration(cfg.Workers[sa.TaskType].Timeout) * time.Millisecond,
			},
			engine, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create submit-application handler", zap.Error(err))
		}
		startWorker(zeebeClient, sa.TaskType, cfg.Workers[sa.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sg.TaskType].Enabled {
		handler, err := sg.NewHandler(
			&sg.Config{
				Timeout: time.Duration(cfg.Workers[sg.TaskType].Timeout) * time.Millisecond,
			},
			engine, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create submit-grade handler", zap.Error(err))
		}
		startWorker(zeebeClient, sg.TaskType, cfg.Workers[sg.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[sd.TaskType].Enabled {
		handler, err := sd.NewHandler(
			&sd.Config{
				Timeout: time.Duration(cfg.Workers[sd.TaskType].Timeout) * time.Millisecond,
			},
			engine, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create submit-decision handler", zap.Error(err))
		}
		startWorker(zeebeClient, sd.TaskType, cfg.Workers[sd.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[ws.TaskType].Enabled {
		handler, err := ws.NewHandler(
			&ws.Config{
				Timeout: time.Duration(cfg.Workers[ws.TaskType].Timeout) * time.Millisecond,
			},
			engine, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create workflow-state handler", zap.Error(err))
		}
		startWorker(zeebeClient, ws.TaskType, cfg.Workers[ws.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := pg.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Workflow manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
