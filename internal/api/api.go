// Package api serves a [ucum.Service] as a JSON HTTP API.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/govalues/ucum"
	"github.com/govalues/ucum/decimal"
	"github.com/govalues/ucum/internal/metrics"
)

// Handler handles the unit API endpoints.
type Handler struct {
	svc     *ucum.Service
	log     *zap.Logger
	metrics *metrics.Collector
}

// NewHandler creates a handler. The collector may be nil.
func NewHandler(svc *ucum.Service, log *zap.Logger, collector *metrics.Collector) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log, metrics: collector}
}

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ValidationResponse is the result of validating a unit.
type ValidationResponse struct {
	Unit    string `json:"unit"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// AnalysisResponse describes a unit in words.
type AnalysisResponse struct {
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// CanonicalResponse is the canonical form of a unit.
type CanonicalResponse struct {
	Unit      string     `json:"unit"`
	Canonical string     `json:"canonical"`
	Pair      *ucum.Pair `json:"pair,omitempty"`
}

// ComparableResponse tells whether two units can be converted.
type ComparableResponse struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Comparable bool   `json:"comparable"`
}

// UnitResponse is a registry unit.
type UnitResponse struct {
	Code     string   `json:"code"`
	Names    []string `json:"names"`
	Property string   `json:"property"`
	Kind     string   `json:"kind"`
}

// ConvertRequest is the body of a conversion.
type ConvertRequest struct {
	Value decimal.Decimal `json:"value"`
	From  string          `json:"from"`
	To    string          `json:"to"`
}

// AlgebraRequest is the body of a multiplication or a division.
type AlgebraRequest struct {
	A ucum.Pair `json:"a"`
	B ucum.Pair `json:"b"`
}

// RegisterRoutes registers all unit API routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.Use(h.instrument)
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	v1 := router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/identification", h.GetIdentification).Methods(http.MethodGet)
	v1.HandleFunc("/properties", h.GetProperties).Methods(http.MethodGet)
	v1.HandleFunc("/validate", h.Validate).Methods(http.MethodGet).Queries("unit", "{unit}")
	v1.HandleFunc("/analyse", h.Analyse).Methods(http.MethodGet).Queries("unit", "{unit}")
	v1.HandleFunc("/canonical", h.Canonical).Methods(http.MethodGet).Queries("unit", "{unit}")
	v1.HandleFunc("/comparable", h.Comparable).Methods(http.MethodGet).Queries("from", "{from}", "to", "{to}")
	v1.HandleFunc("/forms", h.Forms).Methods(http.MethodGet).Queries("unit", "{unit}")
	v1.HandleFunc("/convert", h.Convert).Methods(http.MethodPost)
	v1.HandleFunc("/multiply", h.Multiply).Methods(http.MethodPost)
	v1.HandleFunc("/divide", h.Divide).Methods(http.MethodPost)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// GetIdentification handles GET /v1/identification.
func (h *Handler) GetIdentification(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.svc.Identification(), http.StatusOK)
}

// GetProperties handles GET /v1/properties.
func (h *Handler) GetProperties(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, h.svc.Properties(), http.StatusOK)
}

// Validate handles GET /v1/validate?unit=...[&property=...][&canonical=...].
// An invalid unit is a successful answer with valid set to false.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unit := q.Get("unit")
	var err error
	switch {
	case q.Has("property"):
		err = h.svc.ValidateInProperty(unit, q.Get("property"))
	case q.Has("canonical"):
		err = h.svc.ValidateCanonicalUnits(unit, q.Get("canonical"))
	default:
		err = h.svc.Validate(unit)
	}
	resp := ValidationResponse{Unit: unit, Valid: err == nil}
	if err != nil {
		resp.Message = err.Error()
	}
	h.sendJSON(w, resp, http.StatusOK)
}

// Analyse handles GET /v1/analyse?unit=....
func (h *Handler) Analyse(w http.ResponseWriter, r *http.Request) {
	unit := r.URL.Query().Get("unit")
	s, err := h.svc.Analyse(unit)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, AnalysisResponse{Unit: unit, Description: s}, http.StatusOK)
}

// Canonical handles GET /v1/canonical?unit=...[&value=...].
func (h *Handler) Canonical(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unit := q.Get("unit")
	cu, err := h.svc.GetCanonicalUnits(unit)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	resp := CanonicalResponse{Unit: unit, Canonical: cu}
	if q.Has("value") {
		v, err := decimal.Parse(q.Get("value"))
		if err != nil {
			h.sendError(w, r, err.Error(), http.StatusBadRequest)
			return
		}
		p, err := h.svc.GetCanonicalForm(ucum.Pair{Value: v, Code: unit})
		if err != nil {
			h.sendServiceError(w, r, err)
			return
		}
		resp.Pair = &p
	}
	h.sendJSON(w, resp, http.StatusOK)
}

// Comparable handles GET /v1/comparable?from=...&to=....
func (h *Handler) Comparable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")
	ok, err := h.svc.IsComparable(from, to)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, ComparableResponse{From: from, To: to, Comparable: ok}, http.StatusOK)
}

// Forms handles GET /v1/forms?unit=....
func (h *Handler) Forms(w http.ResponseWriter, r *http.Request) {
	us, err := h.svc.GetDefinedForms(r.URL.Query().Get("unit"))
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	resp := make([]UnitResponse, 0, len(us))
	for _, u := range us {
		resp = append(resp, UnitResponse{Code: u.Code, Names: u.Names, Property: u.Property, Kind: u.Kind.String()})
	}
	h.sendJSON(w, resp, http.StatusOK)
}

// Convert handles POST /v1/convert.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if !h.decode(w, r, &req) {
		return
	}
	v, err := h.svc.Convert(req.Value, req.From, req.To)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, ucum.Pair{Value: v, Code: req.To}, http.StatusOK)
}

// Multiply handles POST /v1/multiply.
func (h *Handler) Multiply(w http.ResponseWriter, r *http.Request) {
	h.algebra(w, r, h.svc.Multiply)
}

// Divide handles POST /v1/divide.
func (h *Handler) Divide(w http.ResponseWriter, r *http.Request) {
	h.algebra(w, r, h.svc.DivideBy)
}

func (h *Handler) algebra(w http.ResponseWriter, r *http.Request, op func(a, b ucum.Pair) (ucum.Pair, error)) {
	var req AlgebraRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := op(req.A, req.B)
	if err != nil {
		h.sendServiceError(w, r, err)
		return
	}
	h.sendJSON(w, p, http.StatusOK)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.sendError(w, r, errors.Wrap(err, "decoding request").Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// errorType classifies service errors for responses and metrics.
func errorType(err error) (string, int) {
	switch {
	case errors.Is(err, ucum.ErrUnitSyntax), errors.Is(err, ucum.ErrUnknownUnit),
		errors.Is(err, ucum.ErrUnknownPrefix), errors.Is(err, ucum.ErrPrefixNotApplicable):
		return "invalid_unit", http.StatusBadRequest
	case errors.Is(err, ucum.ErrMalformedNumber):
		return "invalid_number", http.StatusBadRequest
	case errors.Is(err, ucum.ErrNotComparable):
		return "not_comparable", http.StatusUnprocessableEntity
	case errors.Is(err, ucum.ErrIncompatibleSpecialUnit):
		return "special_unit", http.StatusUnprocessableEntity
	case errors.Is(err, ucum.ErrUncomputableUnit), errors.Is(err, ucum.ErrDivisionByZero):
		return "uncomputable", http.StatusUnprocessableEntity
	}
	return "internal_error", http.StatusInternalServerError
}

func (h *Handler) sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	kind, code := errorType(err)
	if h.metrics != nil {
		h.metrics.RecordAPIError(kind, routeName(r))
	}
	if code == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	h.sendError(w, r, err.Error(), code)
}

// sendJSON sends a JSON response.
func (h *Handler) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("writing response", zap.Error(err))
	}
}

// sendError sends an error response.
func (h *Handler) sendError(w http.ResponseWriter, _ *http.Request, message string, statusCode int) {
	h.sendJSON(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	}, statusCode)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument records the count and the duration of every request.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := routeName(r)
		if h.metrics != nil {
			h.metrics.APIRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			h.metrics.RecordAPIRequest(route, r.Method, strconv.Itoa(rec.status))
		}
		h.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
