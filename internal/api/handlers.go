// Package api exposes HTTP handlers for the exercise picker.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/auth"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/cache"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/navigation"
)

// Handler handles HTTP interactions.
type Handler struct {
	service     *domain.Service
	menu        navigation.Menu
	invalidator cache.Invalidator
	defaultK    int
	logger      logrus.FieldLogger
}

// Option customises a Handler.
type Option func(*Handler)

// WithInvalidator sets the cache dropped by POST /v1/cache/invalidations.
func WithInvalidator(inv cache.Invalidator) Option {
	return func(h *Handler) { h.invalidator = inv }
}

// WithDefaultTopK sets the result size used when k is omitted.
func WithDefaultTopK(k int) Option {
	return func(h *Handler) { h.defaultK = k }
}

// WithLogger sets the handler logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler constructs Handler.
func NewHandler(service *domain.Service, menu navigation.Menu, opts ...Option) *Handler {
	h := &Handler{
		service:     service,
		menu:        menu,
		invalidator: cache.NoopInvalidator{},
		defaultK:    domain.DefaultTopK,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes sets up routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/recommendations", h.recommendations)
	mux.HandleFunc("/v1/exercises", h.exercises)
	mux.HandleFunc("/v1/categories/", h.categoryExercises)
	mux.HandleFunc("/v1/menu", h.menuOptions)
	mux.HandleFunc("/v1/cache/invalidations", h.invalidate)
	mux.HandleFunc("/healthz", healthz)
}

// healthz returns an OK response for readiness probes.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) recommendations(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeCatalogRead) || !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	equipment := strings.TrimSpace(q.Get("equipment"))
	muscle := strings.TrimSpace(q.Get("muscle"))
	if equipment == "" || muscle == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "equipment and muscle are required")
		return
	}
	k := h.defaultK
	if raw := q.Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "k must be a non-negative integer")
			return
		}
		k = parsed
	}

	rec, err := h.service.Recommend(r.Context(), domain.EquipmentType(equipment), muscle, k)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) exercises(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeCatalogRead) || !allowMethod(w, r, http.MethodGet) {
		return
	}
	records, err := h.service.Catalog(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": records})
}

func (h *Handler) categoryExercises(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeCatalogRead) || !allowMethod(w, r, http.MethodGet) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/categories/")
	rawID, ok := strings.CutSuffix(rest, "/exercises")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown route")
		return
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "category id must be an integer")
		return
	}

	records, err := h.service.ByCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoriesUnsupported) {
			writeError(w, http.StatusNotImplemented, "not_implemented", err.Error())
			return
		}
		h.serverError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.ExerciseRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"category_id": id, "items": records})
}

func (h *Handler) menuOptions(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeCatalogRead) || !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.menu)
}

func (h *Handler) invalidate(w http.ResponseWriter, r *http.Request) {
	if !authorize(w, r, auth.ScopeCatalogWrite) || !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req cache.InvalidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := h.invalidator.Invalidate(r.Context(), req.ExerciseName); err != nil {
		h.serverError(w, r, err)
		return
	}
	h.logger.WithField("exercise", req.ExerciseName).Info("catalog cache invalidated")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	writeError(w, http.StatusInternalServerError, "server_error", err.Error())
}

func authorize(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(scope) && !claims.HasScope(auth.ScopeCatalogWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return false
	}
	return true
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
