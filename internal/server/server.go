package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/go-phonecodes/internal/config"
	"github.com/example/go-phonecodes/internal/phonecode"
	"github.com/example/go-phonecodes/internal/phonecodes"
	"github.com/example/go-phonecodes/internal/remap"
	"github.com/example/go-phonecodes/internal/symtab"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Converter converts transcriptions and describes the tables behind them.
type Converter interface {
	Convert(input string, source, target phonecode.Alphabet, opts ...phonecodes.Option) (string, error)
	Pairs() []symtab.Key
	Reduction(name string) (*symtab.Reduction, bool)
	Reductions() []*symtab.Reduction
}

// RequestIDHeader carries the request ID on every response.
const RequestIDHeader = "X-Request-ID"

// bodyOverhead is the body allowance on top of the escaped input.
const bodyOverhead = 64 << 10

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxInputBytes  int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxInputBytes:  16384,
		workers:        8,
		requestTimeout: 10 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxInputBytes sets the maximum input length in bytes for POST /convert
// and POST /remap.
func WithMaxInputBytes(n int) Option {
	return func(o *options) { o.maxInputBytes = n }
}

// WithWorkers sets the maximum number of concurrent conversions. Zero
// disables the limit.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request conversion deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	conv Converter
	opts options
	sem  chan struct{} // semaphore for worker pool
	log  *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /alphabets,
// /reductions, POST /convert and POST /remap.
func NewHandler(conv Converter, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		conv: conv,
		opts: opts,
		log:  opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/alphabets", h.handleAlphabets)
	mux.HandleFunc("/reductions", h.handleReductions)
	mux.HandleFunc("/convert", h.handleConvert)
	mux.HandleFunc("/remap", h.handleRemap)
	return withRequestID(mux)
}

type requestIDKey struct{}

// withRequestID tags each request with the caller's X-Request-ID or a new
// UUID and echoes it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type pairResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Language string `json:"language,omitempty"`
}

type alphabetsResponse struct {
	Alphabets []string       `json:"alphabets"`
	Pairs     []pairResponse `json:"pairs"`
}

func (h *handler) handleAlphabets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := alphabetsResponse{
		Alphabets: phonecode.AlphabetNames(),
		Pairs:     []pairResponse{},
	}
	for _, k := range h.conv.Pairs() {
		resp.Pairs = append(resp.Pairs, pairResponse{
			From:     k.Source.String(),
			To:       k.Target.String(),
			Language: k.Language.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type reductionResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Pairs       int    `json:"pairs"`
}

func (h *handler) handleReductions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	out := []reductionResponse{}
	for _, red := range h.conv.Reductions() {
		out = append(out, reductionResponse{
			Name:        red.Name,
			Description: red.Description,
			Source:      red.Source.String(),
			Pairs:       red.Dictionary.Len(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type convertRequest struct {
	Input     string     `json:"input"`
	From      string     `json:"from"`
	To        string     `json:"to"`
	Language  string     `json:"language"`
	Mapping   [][]string `json:"mapping"`
	Reduction string     `json:"reduction"`
}

type convertResponse struct {
	Output   string `json:"output"`
	From     string `json:"from"`
	To       string `json:"to"`
	Language string `json:"language,omitempty"`
}

func (h *handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.checkInput(w, req.Input) {
		return
	}

	source, err := phonecode.ParseAlphabet(req.From)
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	target, err := phonecode.ParseAlphabet(req.To)
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	dict, err := h.dictionary(req.Mapping, req.Reduction)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := []phonecodes.Option{phonecodes.WithLanguage(req.Language)}
	if dict != nil {
		opts = append(opts, phonecodes.WithPostMapping(dict))
	}

	release, ok := h.acquire(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	start := time.Now()
	// The slot is held until the conversion returns, even after a timeout.
	go func() {
		defer release()
		out, err := h.conv.Convert(req.Input, source, target, opts...)
		done <- result{out: out, err: err}
	}()

	attrs := []any{
		slog.String("request_id", requestID(r.Context())),
		slog.String("from", source.String()),
		slog.String("to", target.String()),
		slog.Int("input_len", len(req.Input)),
	}

	var res result
	select {
	case <-ctx.Done():
		h.log.WarnContext(r.Context(), "conversion timed out",
			append(attrs, slog.Int64("duration_ms", time.Since(start).Milliseconds()))...)
		writeError(w, http.StatusGatewayTimeout, "conversion timed out")
		return
	case res = <-done:
	}
	durationMS := time.Since(start).Milliseconds()

	if res.err != nil {
		h.log.InfoContext(r.Context(), "conversion rejected",
			append(attrs, slog.Int64("duration_ms", durationMS), slog.String("error", res.err.Error()))...)
		writeError(w, statusFor(res.err), res.err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "conversion complete",
		append(attrs, slog.Int64("duration_ms", durationMS), slog.Int("output_len", len(res.out)))...)

	writeJSON(w, http.StatusOK, convertResponse{
		Output:   res.out,
		From:     source.String(),
		To:       target.String(),
		Language: req.Language,
	})
}

type remapRequest struct {
	Input     string     `json:"input"`
	Mapping   [][]string `json:"mapping"`
	Reduction string     `json:"reduction"`
}

func (h *handler) handleRemap(w http.ResponseWriter, r *http.Request) {
	var req remapRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !h.checkInput(w, req.Input) {
		return
	}

	dict, err := h.dictionary(req.Mapping, req.Reduction)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if dict == nil {
		writeError(w, http.StatusBadRequest, "mapping or reduction is required")
		return
	}

	out := strings.TrimSpace(remap.Apply(req.Input, dict))
	h.log.InfoContext(r.Context(), "remap complete",
		slog.String("request_id", requestID(r.Context())),
		slog.Int("input_len", len(req.Input)),
		slog.Int("pairs", dict.Len()),
	)
	writeJSON(w, http.StatusOK, map[string]string{"output": out})
}

// decode reads a JSON POST body into v. It writes the error response and
// returns false when the request is unusable.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	limit := h.bodyLimit()
	body := http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds maximum size of %d bytes", limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// bodyLimit bounds a request body: the input escaped as \uXXXX plus room
// for the other fields and an inline mapping.
func (h *handler) bodyLimit() int64 {
	return int64(h.opts.maxInputBytes)*6 + bodyOverhead
}

func (h *handler) checkInput(w http.ResponseWriter, input string) bool {
	if strings.TrimSpace(input) == "" {
		writeError(w, http.StatusBadRequest, "input field is required")
		return false
	}
	if len(input) > h.opts.maxInputBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("input exceeds maximum size of %d bytes", h.opts.maxInputBytes))
		return false
	}
	return true
}

// dictionary resolves the mapping of a request. It returns nil when the
// request names neither a mapping nor a reduction.
func (h *handler) dictionary(mapping [][]string, reduction string) (*remap.Dictionary, error) {
	switch {
	case len(mapping) > 0 && reduction != "":
		return nil, errors.New("mapping and reduction are mutually exclusive")
	case len(mapping) > 0:
		d, err := remap.FromStrings(mapping)
		if err != nil {
			return nil, fmt.Errorf("mapping: %w", err)
		}
		return d, nil
	case reduction != "":
		red, ok := h.conv.Reduction(reduction)
		if !ok {
			return nil, fmt.Errorf("unknown reduction %q", reduction)
		}
		return red.Dictionary, nil
	default:
		return nil, nil
	}
}

// acquire takes a worker slot, honouring cancellation while waiting.
func (h *handler) acquire(w http.ResponseWriter, r *http.Request) (func(), bool) {
	if h.sem == nil {
		return func() {}, true
	}
	select {
	case h.sem <- struct{}{}:
		return func() { <-h.sem }, true
	case <-r.Context().Done():
		writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
		return nil, false
	}
}

// statusFor maps conversion errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, phonecode.ErrUnsupportedLanguage),
		errors.Is(err, phonecode.ErrUnsupportedSymbol),
		errors.Is(err, phonecode.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, phonecode.ErrUnsupportedConversion):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	svc             *phonecodes.Service
	shutdownTimeout time.Duration
}

// New returns a Server for cfg. A nil svc is built from cfg on Start.
func New(cfg config.Config, svc *phonecodes.Service) *Server {
	return &Server{
		cfg:             cfg,
		svc:             svc,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	svc := s.svc
	if svc == nil {
		var err error
		svc, err = phonecodes.NewServiceFromConfig(s.cfg)
		if err != nil {
			return fmt.Errorf("initialize service: %w", err)
		}
	}

	handlerOpts := []Option{
		WithWorkers(s.cfg.Server.Workers),
		WithMaxInputBytes(s.cfg.Server.MaxInputBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout) * time.Second),
	}

	h := NewHandler(svc, handlerOpts...)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	slog.Info("listening", "addr", s.cfg.Server.ListenAddr, "pairs", len(svc.Pairs()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
