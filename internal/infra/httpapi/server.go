// Package httpapi exposes the tracker as a JSON API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/fardannozami/bible-reading-tracker/internal/app/usecase"
	"github.com/fardannozami/bible-reading-tracker/internal/domain"
)

const (
	// SessionCookie carries the selected participant between requests.
	SessionCookie = "bible_current_user"
	// DeviceCookie identifies the browser whose stored preference applies
	// when the session cookie is missing.
	DeviceCookie = "bible_device"

	cookieMaxAge = 365 * 24 * 60 * 60
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Usecases *usecase.Set
	Schedule domain.Schedule
	Store    Pinger
	Backend  string
	Auth     *Authenticator
	// Now returns the current time in the tracker's time zone.
	Now    func() time.Time
	Logger *log.Logger
}

type handler struct {
	uc       *usecase.Set
	schedule domain.Schedule
	store    Pinger
	backend  string
	auth     *Authenticator
	now      func() time.Time
	logger   *log.Logger
}

func NewRouter(d Deps) http.Handler {
	h := &handler{
		uc:       d.Usecases,
		schedule: d.Schedule,
		store:    d.Store,
		backend:  d.Backend,
		auth:     d.Auth,
		now:      d.Now,
		logger:   d.Logger,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.logger == nil {
		h.logger = log.Default()
	}

	router := mux.NewRouter()
	router.Use(loggingMiddleware(h.logger))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", h.status).Methods(http.MethodGet)
	api.HandleFunc("/plan", h.plan).Methods(http.MethodGet)
	api.HandleFunc("/participants", h.listParticipants).Methods(http.MethodGet)
	api.HandleFunc("/session", h.getSession).Methods(http.MethodGet)
	api.HandleFunc("/session", h.selectSession).Methods(http.MethodPut)
	api.HandleFunc("/session", h.clearSession).Methods(http.MethodDelete)
	api.HandleFunc("/today", h.today).Methods(http.MethodGet)
	api.HandleFunc("/completions", h.markComplete).Methods(http.MethodPost)
	api.HandleFunc("/progress", h.progress).Methods(http.MethodGet)
	api.HandleFunc("/progress/export.csv", h.exportProgress).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", h.dashboard).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/users/{name}", h.userDetail).Methods(http.MethodGet)
	api.HandleFunc("/admin/login", h.login).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(h.adminOnly)
	admin.HandleFunc("/overview", h.adminOverview).Methods(http.MethodGet)
	admin.HandleFunc("/participants", h.addParticipant).Methods(http.MethodPost)
	admin.HandleFunc("/participants/{name}", h.removeParticipant).Methods(http.MethodDelete)
	admin.HandleFunc("/weekly", h.weekly).Methods(http.MethodGet)
	admin.HandleFunc("/monitor", h.monitor).Methods(http.MethodGet)
	admin.HandleFunc("/export.csv", h.exportCSV).Methods(http.MethodGet)
	admin.HandleFunc("/export.xlsx", h.exportXLSX).Methods(http.MethodGet)

	return router
}

// --- JSON helpers ---

func jsonOK(w http.ResponseWriter, data any) {
	jsonStatus(w, data, http.StatusOK)
}

func jsonStatus(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, map[string]string{"error": msg}, code)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errBadRequest
	}
	return nil
}

var errBadRequest = errors.New("invalid request body")

// writeError maps domain errors to status codes. Anything unrecognised is
// logged and reported as a storage failure.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNoUserSelected),
		errors.Is(err, domain.ErrFutureReading),
		errors.Is(err, domain.ErrInvalidWeek):
		jsonError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUnknownParticipant),
		errors.Is(err, domain.ErrNoReading):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrParticipantExists),
		errors.Is(err, domain.ErrAlreadyCompleted):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidCredentials):
		jsonError(w, err.Error(), http.StatusUnauthorized)
	default:
		h.logger.Printf("Error handling %s %s: %v", r.Method, r.URL.Path, err)
		jsonError(w, "storage error, please try again", http.StatusInternalServerError)
	}
}
