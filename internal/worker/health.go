package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aescanero/dago-node-formatter/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// checkTimeout bounds the redis round trips of a single probe
const checkTimeout = 2 * time.Second

// HealthServer reports whether the formatter can take work from its stream
type HealthServer struct {
	port          int
	streamKey     string
	consumerGroup string
	redisClient   *redis.Client
	processor     *Processor
	logger        *zap.Logger
	server        *http.Server
}

// NewHealthServer creates a health server for the worker configured by cfg
func NewHealthServer(cfg *config.Config, redisClient *redis.Client, processor *Processor, logger *zap.Logger) *HealthServer {
	return &HealthServer{
		port:          cfg.HealthPort,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		redisClient:   redisClient,
		processor:     processor,
		logger:        logger,
	}
}

// Handler returns the /health and /ready endpoints
func (hs *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", hs.handleHealth)
	mux.HandleFunc("/ready", hs.handleReady)
	return mux
}

// Start serves the health endpoints in the background
func (hs *HealthServer) Start() error {
	hs.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", hs.port),
		Handler:           hs.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	hs.logger.Info("starting health server", zap.Int("port", hs.port))

	go func() {
		if err := hs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			hs.logger.Error("health server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the health check server
func (hs *HealthServer) Stop() error {
	if hs.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	hs.logger.Info("stopping health server")
	return hs.server.Shutdown(ctx)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// probe gathers the formatter's checks. redisOK is false when redis cannot
// be reached; groupOK is false when the consumer group is missing.
func (hs *HealthServer) probe(ctx context.Context) (checks map[string]string, redisOK, groupOK bool) {
	checks = make(map[string]string)

	if hs.processor != nil {
		checks["templates_cached"] = strconv.Itoa(hs.processor.CachedTemplates())

		syntaxes := make([]string, 0, 2)
		for _, s := range hs.processor.Syntaxes() {
			syntaxes = append(syntaxes, string(s))
		}
		checks["syntaxes"] = strings.Join(syntaxes, ",")
	}

	if err := hs.redisClient.Ping(ctx).Err(); err != nil {
		checks["redis"] = fmt.Sprintf("unhealthy: %v", err)
		return checks, false, false
	}
	checks["redis"] = "healthy"

	pending, err := hs.redisClient.XPending(ctx, hs.streamKey, hs.consumerGroup).Result()
	if err != nil {
		checks["consumer_group"] = fmt.Sprintf("missing: %v", err)
		return checks, true, false
	}
	checks["consumer_group"] = hs.consumerGroup
	checks["pending"] = strconv.FormatInt(pending.Count, 10)

	return checks, true, true
}

// handleHealth reports liveness: healthy while redis answers
func (hs *HealthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks, redisOK, _ := hs.probe(ctx)
	if !redisOK {
		hs.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Checks: checks,
		})
		return
	}

	hs.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Checks: checks,
	})
}

// handleReady reports readiness: redis answers and the consumer group exists
func (hs *HealthServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks, redisOK, groupOK := hs.probe(ctx)
	if !redisOK || !groupOK {
		hs.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "not ready",
			Checks: checks,
		})
		return
	}

	hs.respondJSON(w, http.StatusOK, HealthResponse{
		Status: "ready",
		Checks: checks,
	})
}

// respondJSON writes a JSON response
func (hs *HealthServer) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		hs.logger.Error("failed to encode response", zap.Error(err))
	}
}
