package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/pawswap/app"
	"github.com/paw-chain/pawswap/app/health"
	pairtypes "github.com/paw-chain/pawswap/x/pair/types"
	"github.com/paw-chain/pawswap/x/shared/contract"
)

const (
	flagListen     = "listen"
	flagScenario   = "scenario"
	flagEnableCORS = "enable-cors"
	flagRateLimit  = "rate-limit"
	flagRateBurst  = "rate-burst"

	// HeaderRequestID carries the id of a request through logs and responses.
	HeaderRequestID = "X-Request-ID"

	maxQueryBody = 1 << 20
)

// ServeCmd serves contract queries over HTTP.
func ServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve contract queries, balances, health and metrics over HTTP",
		Long: `Deploy the DEX, optionally replay a scenario into it, and serve:

  POST /contracts/{address}/query     smart query with the request body
  GET  /contracts/{address}/balances  native balances
  GET  /dex                           factory, router and stored codes
  GET  /health, /health/ready, /health/detailed
  GET  /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, shutdownTracing, err := newEnvironment(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			var dex *app.DEX
			if path := v.GetString(flagScenario); path != "" {
				sc, err := LoadScenario(path)
				if err != nil {
					return err
				}
				sim, err := NewSimulator(a, sc)
				if err != nil {
					return err
				}
				if _, err := sim.Replay(sc.Steps, nil); err != nil {
					return err
				}
				dex = sim.DEX()
			} else {
				fee, err := ParseFee("0.003")
				if err != nil {
					return err
				}
				if dex, err = a.DeployDEX("owner", pairtypes.PairSettings{SwapFee: fee}); err != nil {
					return err
				}
			}

			srv, err := NewServer(a, dex, ServerConfig{
				EnableCORS: v.GetBool(flagEnableCORS),
				RateLimit:  v.GetFloat64(flagRateLimit),
				RateBurst:  v.GetInt(flagRateBurst),
			})
			if err != nil {
				return err
			}
			httpServer := &http.Server{
				Addr:              v.GetString(flagListen),
				Handler:           srv,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       15 * time.Second,
				WriteTimeout:      15 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.Logger().Info("serving", "addr", httpServer.Addr, "factory", dex.Factory.Address, "router", dex.Router.Address)
				errCh <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().String(flagListen, "127.0.0.1:8080", "address to listen on")
	cmd.Flags().String(flagScenario, "", "scenario to replay before serving")
	cmd.Flags().Bool(flagEnableCORS, false, "allow cross-origin requests")
	cmd.Flags().Float64(flagRateLimit, 20, "requests per second allowed per client, 0 disables limiting")
	cmd.Flags().Int(flagRateBurst, 40, "requests a client may burst above the rate limit")
	return cmd
}

// Server answers HTTP requests against an environment.
type Server struct {
	app     *app.App
	dex     *app.DEX
	logger  log.Logger
	handler http.Handler
}

// ServerConfig tunes the HTTP surface.
type ServerConfig struct {
	EnableCORS bool
	// Requests per second per client; zero disables limiting.
	RateLimit float64
	RateBurst int
}

// NewServer routes the query, balance, health and metrics endpoints.
func NewServer(a *app.App, dex *app.DEX, cfg ServerConfig) (*Server, error) {
	s := &Server{app: a, dex: dex, logger: a.Logger().With("module", "server")}

	hcfg := health.DefaultConfig()
	hcfg.Version = Version
	hcfg.Watch = map[string]contract.Callable{"factory": dex.Factory, "router": dex.Router}
	checker, err := health.NewChecker(a.Logger(), a, hcfg)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Use(s.requestID)
	router.Use(NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Middleware)
	router.HandleFunc("/contracts/{address}/query", s.handleQuery).Methods("POST")
	router.HandleFunc("/contracts/{address}/balances", s.handleBalances).Methods("GET")
	router.HandleFunc("/dex", s.handleDEX).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	checker.RegisterRoutes(router)

	s.handler = router
	if cfg.EnableCORS {
		s.handler = handlers.CORS(
			handlers.AllowedOrigins([]string{"*"}),
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", HeaderRequestID}),
		)(router)
	}
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// requestID tags every request with an id, reusing the caller's if sent.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "id", id, "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Codespace string `json:"codespace,omitempty"`
	Code      uint32 `json:"code,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	body, err := io.ReadAll(io.LimitReader(r.Body, maxQueryBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("query body is not JSON"))
		return
	}

	res, err := s.app.Query(address, body)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, app.ErrUnknownContract) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res)
}

// BalancesResponse lists an address's native coins.
type BalancesResponse struct {
	Address  string `json:"address"`
	Balances string `json:"balances"`
}

func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	coins, err := s.app.Balances(address)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, BalancesResponse{Address: address, Balances: coins.String()})
}

// DEXResponse describes the deployment being served.
type DEXResponse struct {
	Height  int64             `json:"height"`
	Factory contract.Callable `json:"factory"`
	Router  contract.Callable `json:"router"`
	Codes   []CodeResponse    `json:"codes"`
}

type CodeResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Hash string `json:"hash"`
}

func (s *Server) handleDEX(w http.ResponseWriter, _ *http.Request) {
	resp := DEXResponse{Height: s.app.Height(), Factory: s.dex.Factory, Router: s.dex.Router}
	for _, code := range s.app.Codes() {
		resp.Codes = append(resp.Codes, CodeResponse{ID: code.ID, Name: code.Name, Hash: code.Hash})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Codespace: codespace, Code: code})
}
