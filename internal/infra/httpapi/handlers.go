package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fardannozami/bible-reading-tracker/internal/app/export"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Printf("Storage ping failed: %v", err)
		jsonStatus(w, map[string]any{"status": "unavailable", "backend": h.backend}, http.StatusServiceUnavailable)
		return
	}
	jsonOK(w, map[string]any{
		"status":   "ok",
		"backend":  h.backend,
		"readings": len(h.schedule),
		"today":    h.now().Format("2006-01-02"),
	})
}

func (h *handler) plan(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, h.schedule)
}

func (h *handler) listParticipants(w http.ResponseWriter, r *http.Request) {
	names, err := h.uc.ListParticipants.Execute(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, names)
}

// --- Session ---

// currentUser resolves the session cookie, falling back to the participant
// last selected on the caller's device. Callers without either cookie have
// no user.
func (h *handler) currentUser(r *http.Request) (string, error) {
	return h.uc.Session.Current(r.Context(), deviceID(r), cookieValue(r, SessionCookie))
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return v
}

func deviceID(r *http.Request) string {
	id := cookieValue(r, DeviceCookie)
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, map[string]string{"user": name})
}

func (h *handler) selectSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		User string `json:"user"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	device := deviceID(r)
	if device == "" {
		device = uuid.NewString()
	}
	if err := h.uc.Session.Select(r.Context(), device, body.User); err != nil {
		h.writeError(w, r, err)
		return
	}

	setCookie(w, SessionCookie, body.User)
	setCookie(w, DeviceCookie, device)
	jsonOK(w, map[string]string{"user": body.User})
}

func (h *handler) clearSession(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Session.Clear(r.Context(), deviceID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	jsonOK(w, map[string]string{"user": ""})
}

// --- Reader views ---

func (h *handler) today(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.uc.Today.Execute(r.Context(), name, h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, view)
}

func (h *handler) markComplete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
	}
	// The body is optional; no body marks today's reading.
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, errBadRequest)
		return
	}

	name, err := h.currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	c, err := h.uc.MarkComplete.Execute(r.Context(), name, body.Date, h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonStatus(w, c, http.StatusCreated)
}

func (h *handler) progress(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.uc.Progress.Execute(r.Context(), name, h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, view)
}

func (h *handler) exportProgress(w http.ResponseWriter, r *http.Request) {
	name, err := h.currentUser(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	now := h.now()
	report, err := h.uc.Export.UserReport(r.Context(), name, now)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	attachment(w, csvContentType, export.UserFilename(name, now))
	if err := export.WriteUserCSV(w, report); err != nil {
		h.logger.Printf("Failed to write progress export: %v", err)
	}
}

func (h *handler) dashboard(w http.ResponseWriter, r *http.Request) {
	view, err := h.uc.Dashboard.Execute(r.Context(), h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, view)
}

func (h *handler) userDetail(w http.ResponseWriter, r *http.Request) {
	view, err := h.uc.UserDetail.Execute(r.Context(), mux.Vars(r)["name"], h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, view)
}

// --- Admin ---

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	token, expires, err := h.auth.Login(body.Username, body.Password, time.Now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Printf("Admin %s logged in", body.Username)
	jsonOK(w, map[string]any{
		"token":     token,
		"username":  body.Username,
		"expiresAt": expires,
	})
}

func (h *handler) adminOverview(w http.ResponseWriter, r *http.Request) {
	view, err := h.uc.AdminOverview.Execute(r.Context(), h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, view)
}

func (h *handler) addParticipant(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}

	name, err := h.uc.AddParticipant.Execute(r.Context(), body.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Printf("Admin %s added participant %s", adminFrom(r.Context()), name)
	jsonStatus(w, map[string]string{"name": name}, http.StatusCreated)
}

func (h *handler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if err := h.uc.RemoveParticipant.Execute(r.Context(), name); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Printf("Admin %s removed participant %s", adminFrom(r.Context()), name)
	jsonOK(w, map[string]string{"removed": name})
}

func (h *handler) weekly(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.WeeklyReport.Execute(r.Context(), r.URL.Query().Get("week"), h.now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, report)
}

func (h *handler) monitor(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view, err := h.uc.Monitor.Execute(r.Context(), q.Get("user"), q.Get("date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	jsonOK(w, view)
}

func (h *handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	report, err := h.uc.Export.AdminReport(r.Context(), now)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	attachment(w, csvContentType, export.AdminFilename(now, "csv"))
	if err := export.WriteAdminCSV(w, report); err != nil {
		h.logger.Printf("Failed to write admin export: %v", err)
	}
}

func (h *handler) exportXLSX(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	report, err := h.uc.Export.AdminReport(r.Context(), now)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	attachment(w, xlsxContentType, export.AdminFilename(now, "xlsx"))
	if err := export.WriteAdminXLSX(w, report); err != nil {
		h.logger.Printf("Failed to write admin workbook: %v", err)
	}
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}
