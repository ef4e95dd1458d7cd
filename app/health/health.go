// Package health reports whether a pawswap environment can serve queries.
//
// The checker exposes three endpoints:
// - /health - liveness
// - /health/ready - readiness for load balancers
// - /health/detailed - every component with its metrics
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"

	"github.com/paw-chain/pawswap/app"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ComponentHealth represents the health status of a single component
type ComponentHealth struct {
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Metrics   map[string]any `json:"metrics,omitempty"`
}

// HealthCheck represents the overall health check response
type HealthCheck struct {
	Status     Status                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// Environment is the part of app.App the checker reads.
type Environment interface {
	contract.Querier
	Height() int64
	Config() app.Config
	Codes() []app.Code
}

// Checker checks the environment and the contracts it is told to watch.
type Checker struct {
	logger  log.Logger
	env     Environment
	version string
	watch   map[string]contract.Callable
	probe   json.RawMessage

	maxResponseTime time.Duration

	mu            sync.RWMutex
	lastCheck     time.Time
	cachedHealth  *HealthCheck
	cacheDuration time.Duration
}

// Config holds configuration for the health checker
type Config struct {
	// Version is reported by the detailed check.
	Version string

	// Watch maps a component name to a contract that must answer Probe.
	Watch map[string]contract.Callable

	// Probe is the query sent to watched contracts.
	Probe json.RawMessage

	// MaxResponseTime is the query time above which a contract is degraded.
	MaxResponseTime time.Duration

	// CacheDuration is how long to cache health check results
	CacheDuration time.Duration
}

// DefaultConfig returns the default health check configuration
func DefaultConfig() Config {
	return Config{
		Probe:           json.RawMessage(`{"config":{}}`),
		MaxResponseTime: 500 * time.Millisecond,
		CacheDuration:   5 * time.Second,
	}
}

// NewChecker creates a new health checker
func NewChecker(logger log.Logger, env Environment, cfg Config) (*Checker, error) {
	if env == nil {
		return nil, fmt.Errorf("environment is required")
	}
	if len(cfg.Watch) > 0 && len(cfg.Probe) == 0 {
		return nil, fmt.Errorf("probe query is required to watch contracts")
	}

	return &Checker{
		logger:          logger.With("module", "health"),
		env:             env,
		version:         cfg.Version,
		watch:           cfg.Watch,
		probe:           cfg.Probe,
		maxResponseTime: cfg.MaxResponseTime,
		cacheDuration:   cfg.CacheDuration,
	}, nil
}

// Check runs every check, reusing a recent result unless detailed is set.
func (c *Checker) Check(ctx context.Context, detailed bool) (*HealthCheck, error) {
	if !detailed && c.shouldUseCached() {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return c.cachedHealth, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	health := &HealthCheck{
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}
	if detailed {
		health.Version = c.version
	}

	health.Components["environment"] = c.checkEnvironment()
	health.Components["codes"] = c.checkCodes()

	// Watched contracts are queried in parallel; each query takes the
	// environment lock on its own.
	var wg sync.WaitGroup
	var mu sync.Mutex
	for name, target := range c.watch {
		wg.Add(1)
		go func(name string, target contract.Callable) {
			defer wg.Done()
			result := c.checkContract(target)
			mu.Lock()
			health.Components[name] = result
			mu.Unlock()
		}(name, target)
	}
	wg.Wait()

	health.Status = c.calculateOverallStatus(health.Components)

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.cachedHealth = health
	c.mu.Unlock()

	return health, nil
}

// checkEnvironment verifies the environment configuration
func (c *Checker) checkEnvironment() ComponentHealth {
	cfg := c.env.Config()
	metrics := map[string]any{
		"height":       c.env.Height(),
		"native_denom": cfg.NativeDenom,
		"max_depth":    cfg.MaxDepth,
	}
	if err := cfg.Validate(); err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   err.Error(),
			Timestamp: time.Now(),
			Metrics:   metrics,
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   "environment is configured",
		Timestamp: time.Now(),
		Metrics:   metrics,
	}
}

// checkCodes reports the stored contract codes
func (c *Checker) checkCodes() ComponentHealth {
	codes := c.env.Codes()
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, code.Name)
	}

	if len(codes) == 0 {
		return ComponentHealth{
			Status:    StatusDegraded,
			Message:   "no contract codes stored",
			Timestamp: time.Now(),
		}
	}
	return ComponentHealth{
		Status:    StatusHealthy,
		Message:   fmt.Sprintf("%d codes stored", len(codes)),
		Timestamp: time.Now(),
		Metrics:   map[string]any{"codes": names},
	}
}

// checkContract sends the probe query to target
func (c *Checker) checkContract(target contract.Callable) ComponentHealth {
	start := time.Now()
	_, err := c.env.QuerySmart(target, c.probe)
	duration := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:    StatusUnhealthy,
			Message:   fmt.Sprintf("query failed: %v", err),
			Timestamp: time.Now(),
		}
	}

	status, message := StatusHealthy, "contract answers queries"
	if c.maxResponseTime > 0 && duration > c.maxResponseTime {
		status, message = StatusDegraded, "contract query time is degraded"
	}
	return ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
		Metrics: map[string]any{
			"address":       target.Address,
			"query_time_ms": duration.Milliseconds(),
		},
	}
}

// calculateOverallStatus determines the overall health status based on component statuses
func (c *Checker) calculateOverallStatus(components map[string]ComponentHealth) Status {
	hasUnhealthy := false
	hasDegraded := false

	for _, component := range components {
		switch component.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// shouldUseCached determines if cached health check results should be used
func (c *Checker) shouldUseCached() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.cachedHealth == nil {
		return false
	}

	return time.Since(c.lastCheck) < c.cacheDuration
}

// RegisterRoutes registers health check endpoints
func (c *Checker) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", c.handleHealth).Methods("GET")
	router.HandleFunc("/health/ready", c.handleHealthReady).Methods("GET")
	router.HandleFunc("/health/detailed", c.handleHealthDetailed).Methods("GET")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handleHealth handles the basic liveness check endpoint
func (c *Checker) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleHealthReady handles the readiness check endpoint. A degraded
// environment is still ready.
func (c *Checker) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	c.serveCheck(w, r, false)
}

// handleHealthDetailed handles the detailed health check endpoint
func (c *Checker) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	c.serveCheck(w, r, true)
}

func (c *Checker) serveCheck(w http.ResponseWriter, r *http.Request, detailed bool) {
	health, err := c.Check(r.Context(), detailed)
	if err != nil {
		c.logger.Error("health check failed", "error", err, "detailed", detailed)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	statusCode := http.StatusOK
	if health.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, health)
}
