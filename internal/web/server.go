package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime"
	"strconv"
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/config"
	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/types"
	"github.com/elys-network/bondstake/internal/utils"
)

const maxBodyBytes = 1 << 20

// WebServer exposes the contracts and the recorded history over HTTP
type WebServer struct {
	app     *app.App
	router  *mux.Router
	metrics http.Handler
	server  *http.Server
	logger  zerolog.Logger
	started time.Time
}

// ExecuteRequest is the body of POST /api/execute. Msg is the single-key JSON message of the contract.
type ExecuteRequest struct {
	Sender   string          `json:"sender"`
	Contract string          `json:"contract"`
	Funds    sdk.Coins       `json:"funds"`
	Msg      json.RawMessage `json:"msg"`
}

// TransferRequest is the body of POST /api/transfer.
type TransferRequest struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Coins sdk.Coins `json:"coins"`
}

// NewWebServer creates a new web server instance. metricsHandler may be nil.
func NewWebServer(a *app.App, metricsHandler http.Handler, listen string) *WebServer {
	if listen == "" {
		listen = ":8080"
	}

	ws := &WebServer{
		app:     a,
		router:  mux.NewRouter(),
		metrics: metricsHandler,
		logger:  logger.GetForComponent("web_server"),
		started: time.Now(),
	}
	ws.setupRoutes()

	ws.server = &http.Server{
		Addr:         listen,
		Handler:      ws.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return ws
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")
	if ws.metrics != nil {
		ws.router.Handle("/metrics", ws.metrics).Methods("GET")
	}

	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/query/{contract}/{query}", ws.handleQuery).Methods("GET")
	api.HandleFunc("/balance/{address}/{denom}", ws.handleBalance).Methods("GET")
	api.HandleFunc("/execute", ws.handleExecute).Methods("POST")
	api.HandleFunc("/transfer", ws.handleTransfer).Methods("POST")
	api.HandleFunc("/receipts", ws.handleGetReceipts).Methods("GET")
	api.HandleFunc("/epochs", ws.handleGetEpochs).Methods("GET")
	api.HandleFunc("/summary", ws.handleGetSummary).Methods("GET")

	ws.router.Use(ws.loggingMiddleware)
}

// Handler returns the router wrapped in CORS handling.
func (ws *WebServer) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(ws.router)
}

// Start starts the web server and blocks until it is shut down
func (ws *WebServer) Start() error {
	ws.logger.Info().Str("addr", ws.server.Addr).Msg("Starting web server")

	if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for the running ones.
func (ws *WebServer) Shutdown(ctx context.Context) error {
	return ws.server.Shutdown(ctx)
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hasErrors := false

	recorderHealthy := true
	if err := ws.app.Recorder().Ping(r.Context()); err != nil {
		ws.logger.Warn().Err(err).Msg("Recorder ping failed")
		recorderHealthy = false
		hasErrors = true
	}

	instantiated, err := ws.app.Instantiated()
	if err != nil {
		hasErrors = true
	}
	height, err := ws.app.Height()
	if err != nil {
		hasErrors = true
	}
	if !instantiated {
		hasErrors = true
	}

	overallStatus := "OK"
	if hasErrors {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":            runtime.Version(),
			"goroutines_count":   runtime.NumGoroutine(),
			"heap_objects_count": memStats.HeapObjects,
			"alloc_bytes":        memStats.Alloc,
			"sys_bytes":          memStats.Sys,
			"gc_cycles":          memStats.NumGC,
			"uptime_seconds":     int64(time.Since(ws.started).Seconds()),
		},
		"host": map[string]interface{}{
			"instantiated":     instantiated,
			"height":           height,
			"recorder_healthy": recorderHealthy,
		},
	}

	statusCode := http.StatusOK
	if hasErrors {
		statusCode = http.StatusServiceUnavailable
	}
	ws.writeJSONResponse(w, statusCode, response)
}

// handleQuery answers a contract query. Parameters come from the query string.
func (ws *WebServer) handleQuery(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	params := r.URL.Query()

	req := types.QueryRequest{
		Contract: vars["contract"],
		Query:    vars["query"],
		Address:  params.Get("address"),
		Denom:    params.Get("denom"),
		Base:     params.Get("base"),
		Quote:    params.Get("quote"),
	}
	if raw := params.Get("value"); raw != "" {
		value, ok := sdkmath.NewIntFromString(raw)
		if !ok {
			ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid value")
			return
		}
		req.Value = &value
	}

	res, err := ws.app.Query(r.Context(), req)
	if err != nil {
		ws.writeContractError(w, err)
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, res)
}

// handleBalance returns a ledger balance in base and display units
func (ws *WebServer) handleBalance(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	denom := vars["denom"]

	res, err := ws.app.Query(r.Context(), types.QueryRequest{
		Contract: types.LedgerStoreKey,
		Query:    types.QueryBalance,
		Address:  vars["address"],
		Denom:    denom,
	})
	if err != nil {
		ws.writeContractError(w, err)
		return
	}
	balance := res.(app.BalanceResponse)

	display, err := utils.SDKIntToFloat64(balance.Coin.Amount, config.DisplayExponent(denom))
	if err != nil {
		ws.logger.Error().Err(err).Str("denom", denom).Msg("Failed to convert balance")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to convert balance")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"address": balance.Address,
		"coin":    balance.Coin,
		"display": display,
	})
}

// handleExecute runs one contract message
func (ws *WebServer) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := types.DecodeExecuteMsg(req.Contract, req.Msg)
	if err != nil {
		ws.writeContractError(w, err)
		return
	}

	res, err := ws.app.Execute(r.Context(), req.Sender, req.Funds, msg)
	if err != nil {
		ws.writeContractError(w, err)
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, res)
}

// handleTransfer moves coins between accounts
func (ws *WebServer) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := ws.app.Transfer(r.Context(), req.From, req.To, req.Coins)
	if err != nil {
		ws.writeContractError(w, err)
		return
	}
	ws.writeJSONResponse(w, http.StatusOK, res)
}

// handleGetReceipts returns the most recent receipts
func (ws *WebServer) handleGetReceipts(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	receipts, err := ws.app.Recorder().RecentReceipts(r.Context(), limit)
	if err != nil {
		ws.logger.Error().Err(err).Msg("Failed to get recent receipts")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve receipts")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"receipts": receipts,
		"count":    len(receipts),
		"limit":    limit,
	})
}

// handleGetEpochs returns the most recent rebases
func (ws *WebServer) handleGetEpochs(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r)

	epochs, err := ws.app.Recorder().RecentEpochs(r.Context(), limit)
	if err != nil {
		ws.logger.Error().Err(err).Msg("Failed to get recent epochs")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve epochs")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"epochs": epochs,
		"count":  len(epochs),
		"limit":  limit,
	})
}

// handleGetSummary returns activity statistics
func (ws *WebServer) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ws.app.Recorder().Summary(r.Context())
	if err != nil {
		ws.logger.Error().Err(err).Msg("Failed to get summary")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve summary")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, summary)
}

func parseLimit(r *http.Request) int {
	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}
	return limit
}

// statusFor maps a contract error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotInstantiated):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, types.ErrUnknownMessage),
		errors.Is(err, types.ErrNoPosition),
		errors.Is(err, types.ErrNoWarmupEntry),
		errors.Is(err, types.ErrPriceNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrArithmetic):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func (ws *WebServer) writeContractError(w http.ResponseWriter, err error) {
	ws.writeErrorResponse(w, statusFor(err), err.Error())
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		ws.logger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create a response writer wrapper to capture status code
		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		ws.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
