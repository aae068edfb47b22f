package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fardannozami/bible-reading-tracker/internal/app/usecase"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/httpapi"
	"github.com/fardannozami/bible-reading-tracker/internal/infra/localstore"
	"github.com/fardannozami/bible-reading-tracker/internal/plan"
)

var friday = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

type testServer struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := localstore.NewStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	auth, err := httpapi.NewAuthenticator("testsecret", map[string]string{"admin": "bible2026"})
	require.NoError(t, err)

	schedule := plan.Default()
	handler := httpapi.NewRouter(httpapi.Deps{
		Usecases: usecase.NewSet(store, schedule),
		Schedule: schedule,
		Store:    store,
		Backend:  "local",
		Auth:     auth,
		Now:      func() time.Time { return friday },
		Logger:   log.New(io.Discard, "", 0),
	})
	return &testServer{t: t, handler: handler}
}

func (s *testServer) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login() {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "bible2026"})
	require.Equal(s.t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(s.t, resp.Token)
	s.token = resp.Token
}

func (s *testServer) addParticipant(name string) {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/admin/participants", map[string]string{"name": name})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	var resp map[string]string
	decode(t, rec, &resp)
	return resp["error"]
}

func TestStatus(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	decode(t, rec, &resp)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "local", resp["backend"])
	assert.Equal(t, float64(12), resp["readings"])
}

func TestPlan(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/plan", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []map[string]string
	decode(t, rec, &entries)
	assert.Len(t, entries, 12)
	assert.Equal(t, "2025-12-23", entries[0]["date"])
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid username or password", errorOf(t, rec))

	rec = s.do(http.MethodPost, "/api/admin/login", map[string]string{"username": "nobody", "password": "bible2026"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/admin/login", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	paths := []string{"/api/admin/overview", "/api/admin/weekly", "/api/admin/monitor", "/api/admin/export.csv"}
	for _, path := range paths {
		rec := s.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	s.token = "garbage"
	rec := s.do(http.MethodGet, "/api/admin/overview", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminParticipants(t *testing.T) {
	s := newTestServer(t)
	s.login()

	s.addParticipant("Alice")

	rec := s.do(http.MethodPost, "/api/admin/participants", map[string]string{"name": "Alice"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "this participant already exists", errorOf(t, rec))

	rec = s.do(http.MethodPost, "/api/admin/participants", map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "please enter a name", errorOf(t, rec))

	rec = s.do(http.MethodGet, "/api/participants", nil)
	var names []string
	decode(t, rec, &names)
	assert.Equal(t, []string{"Alice"}, names)

	rec = s.do(http.MethodDelete, "/api/admin/participants/Alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/participants", nil)
	decode(t, rec, &names)
	assert.Empty(t, names)
}

func TestSessionAndCompletion(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")
	s.token = ""

	rec := s.do(http.MethodPost, "/api/completions", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "please select your name first", errorOf(t, rec))

	rec = s.do(http.MethodPut, "/api/session", map[string]string{"user": "Mallory"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, "/api/session", map[string]string{"user": "Alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, httpapi.SessionCookie, cookies[0].Name)
	assert.Equal(t, httpapi.DeviceCookie, cookies[1].Name)

	rec = s.do(http.MethodPost, "/api/completions", nil, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var completion map[string]any
	decode(t, rec, &completion)
	assert.Equal(t, "Genesis 24-26", completion["portion"])
	assert.Equal(t, false, completion["catchup"])

	rec = s.do(http.MethodPost, "/api/completions", nil, cookies...)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/api/completions", map[string]string{"date": "2025-12-31"}, cookies...)
	require.Equal(t, http.StatusCreated, rec.Code)
	decode(t, rec, &completion)
	assert.Equal(t, true, completion["catchup"])

	rec = s.do(http.MethodPost, "/api/completions", map[string]string{"date": "2026-01-09"}, cookies...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/completions", map[string]string{"date": "2025-12-25"}, cookies...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionAnonymousClientHasNoUser(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")
	s.token = ""

	rec := s.do(http.MethodPut, "/api/session", map[string]string{"user": "Alice"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Another client, no cookies
	rec = s.do(http.MethodGet, "/api/session", nil)
	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "", resp["user"])

	rec = s.do(http.MethodPost, "/api/completions", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "please select your name first", errorOf(t, rec))

	rec = s.do(http.MethodGet, "/api/progress", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionDevicePreference(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")
	s.addParticipant("Bob")
	s.token = ""

	rec := s.do(http.MethodPut, "/api/session", map[string]string{"user": "Alice"})
	require.Equal(t, http.StatusOK, rec.Code)
	var device *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpapi.DeviceCookie {
			device = c
		}
	}
	require.NotNil(t, device)

	rec = s.do(http.MethodPut, "/api/session", map[string]string{"user": "Bob"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Session cookie expired, device cookie kept
	rec = s.do(http.MethodGet, "/api/session", nil, device)
	var resp map[string]string
	decode(t, rec, &resp)
	assert.Equal(t, "Alice", resp["user"])

	// Clearing without a device cookie leaves Alice's device alone
	rec = s.do(http.MethodDelete, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/session", nil, device)
	decode(t, rec, &resp)
	assert.Equal(t, "Alice", resp["user"])

	rec = s.do(http.MethodDelete, "/api/session", nil, device)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/session", nil, device)
	decode(t, rec, &resp)
	assert.Equal(t, "", resp["user"])

	forged := &http.Cookie{Name: httpapi.DeviceCookie, Value: "not-a-uuid"}
	rec = s.do(http.MethodGet, "/api/session", nil, forged)
	decode(t, rec, &resp)
	assert.Equal(t, "", resp["user"])
}

func TestProgressAndDashboard(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")
	s.addParticipant("Bob")

	cookie := &http.Cookie{Name: httpapi.SessionCookie, Value: "Alice"}
	for _, date := range []string{"2025-12-30", "2025-12-31", "2026-01-02"} {
		rec := s.do(http.MethodPost, "/api/completions", map[string]string{"date": date}, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(http.MethodGet, "/api/progress", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	var progress struct {
		Stats struct {
			Total      int `json:"total"`
			Completed  int `json:"completed"`
			Percentage int `json:"percentage"`
			Streak     int `json:"streak"`
		} `json:"stats"`
		Missed []map[string]string `json:"missed"`
	}
	decode(t, rec, &progress)
	assert.Equal(t, 7, progress.Stats.Total)
	assert.Equal(t, 3, progress.Stats.Completed)
	assert.Equal(t, 43, progress.Stats.Percentage)
	assert.Equal(t, 3, progress.Stats.Streak)
	assert.Len(t, progress.Missed, 4)

	rec = s.do(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard struct {
		TopReaders []struct {
			UserName string `json:"userName"`
		} `json:"topReaders"`
	}
	decode(t, rec, &dashboard)
	require.Len(t, dashboard.TopReaders, 2)
	assert.Equal(t, "Alice", dashboard.TopReaders[0].UserName)

	rec = s.do(http.MethodGet, "/api/dashboard/users/Nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/today", nil, cookie)
	var today map[string]any
	decode(t, rec, &today)
	assert.Equal(t, true, today["done"])
	assert.Equal(t, float64(1), today["completedCount"])
}

func TestAdminWeeklyAndMonitor(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")

	cookie := &http.Cookie{Name: httpapi.SessionCookie, Value: "Alice"}
	s.do(http.MethodPost, "/api/completions", map[string]string{"date": "2025-12-30"}, cookie)

	rec := s.do(http.MethodGet, "/api/admin/weekly?week=2026-W01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		From string `json:"from"`
		Rows []struct {
			Completed int `json:"completed"`
			Missed    int `json:"missed"`
		} `json:"rows"`
	}
	decode(t, rec, &report)
	assert.Equal(t, "2025-12-29", report.From)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.Rows[0].Completed)
	assert.Equal(t, 2, report.Rows[0].Missed)

	rec = s.do(http.MethodGet, "/api/admin/weekly?week=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/weekly?week=2026-W01junk", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/monitor?user=Alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var monitor struct {
		Total int `json:"total"`
	}
	decode(t, rec, &monitor)
	assert.Equal(t, 1, monitor.Total)
}

func TestAdminExport(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")

	rec := s.do(http.MethodGet, "/api/admin/export.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bible_reading_complete_report_2026-01-02.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Bible Reading Tracker - Complete Report\n"))
	assert.Contains(t, rec.Body.String(), "Alice,2026-01-02,Genesis 24-26,Friday,Not Completed,N/A,Pending")

	rec = s.do(http.MethodGet, "/api/admin/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")), "xlsx should be a zip archive")
}

func TestProgressExport(t *testing.T) {
	s := newTestServer(t)
	s.login()
	s.addParticipant("Alice")

	cookie := &http.Cookie{Name: httpapi.SessionCookie, Value: "Alice"}
	rec := s.do(http.MethodGet, "/api/progress/export.csv", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "bible_progress_Alice_2026-01-02.csv")
	assert.Contains(t, rec.Body.String(), "User: Alice\n")
}
