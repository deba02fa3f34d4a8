package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrrconstruction/portfolio/internal/adapters/repository"
	"github.com/rrrconstruction/portfolio/internal/adapters/storage"
	"github.com/rrrconstruction/portfolio/internal/application/services"
	"github.com/rrrconstruction/portfolio/internal/domain/entities"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/config"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/database"
	"github.com/rrrconstruction/portfolio/internal/infrastructure/logger"
)

type testServer struct {
	t       *testing.T
	srv     *Server
	cfg     *config.Config
	store   *database.Store
	uploads *storage.UploadManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{
		App: config.AppConfig{Name: "portfolio", Version: "test", Environment: "test"},
		Storage: config.StorageConfig{
			DataDir:       filepath.Join(root, "data"),
			UploadsDir:    filepath.Join(root, "uploads"),
			MaxUploadSize: "2M",
		},
		Admin: config.AdminConfig{DefaultUsername: "admin", DefaultPassword: "rrr2024"},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			TTL:        time.Hour,
			CookieName: "rrr_session",
			Issuer:     "test",
		},
		Security: config.SecurityConfig{CORSAllowedOrigins: "*"},
		Metrics:  config.MetricsConfig{Enabled: true},
	}

	log := logger.NewNop()
	store, err := database.New(cfg.Storage, log)
	require.NoError(t, err)
	uploads, err := storage.NewUploadManager(cfg.Storage, log)
	require.NoError(t, err)

	auth := services.NewAuthService(repository.NewAdminRepository(store), cfg.Admin, cfg.Session, log)
	_, err = auth.EnsureAdmin(context.Background())
	require.NoError(t, err)

	srv, err := New(cfg, store, uploads, log)
	require.NoError(t, err)

	return &testServer{t: t, srv: srv, cfg: cfg, store: store, uploads: uploads}
}

func (ts *testServer) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

func (ts *testServer) session() *http.Cookie {
	rec := ts.login("admin", "rrr2024")
	require.Equal(ts.t, http.StatusFound, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == ts.cfg.Session.CookieName && c.Value != "" {
			return c
		}
	}
	ts.t.Fatal("login did not set a session cookie")
	return nil
}

func multipartRequest(t *testing.T, target string, fields map[string]string, filename string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestContact_CreatesNewMessage(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"A","email":"a@x.com","phone":"1","service":"S","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["success"])

	messages, err := database.View(context.Background(), ts.store, database.MessagesFile, []*entities.Message{})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, 1, messages[0].ID)
	assert.Equal(t, entities.MessageStatusNew, messages[0].Status)
}

func TestContact_MissingFields(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "email")
}

func TestContact_NonStringFieldIsMalformed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"A","email":"a@x.com","phone":1,"service":"S","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := ts.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request format", decode(t, rec)["message"])

	messages, err := database.View(context.Background(), ts.store, database.MessagesFile, []*entities.Message{})
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{"/api/project/1", "/api/testimonial/1"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
		assert.Equal(t, "Unauthorized", decode(t, rec)["message"])
	}

	for _, target := range []string{
		"/admin/project/add", "/admin/project/delete/1",
		"/admin/testimonial/add", "/admin/message/status/1", "/admin/message/delete/1",
	} {
		rec := ts.do(httptest.NewRequest(http.MethodPost, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.login("admin", "wrong")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, ts.cfg.Session.CookieName, c.Name)
	}

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/project/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_SessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome, admin")

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/admin/login", nil), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/admin/logout", nil), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == ts.cfg.Session.CookieName {
			cleared = c.MaxAge < 0 && c.Value == ""
		}
	}
	assert.True(t, cleared)
}

func TestTamperedSessionIsRejected(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()
	cookie.Value += "x"

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/api/project/1", nil), cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProject_AddEditDelete(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	rec := ts.do(multipartRequest(t, "/admin/project/add", map[string]string{
		"title": "Bridge", "description": "Steel bridge", "category": "civil", "status": "Ongoing",
	}, "bridge.PNG"), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	project := decode(t, rec)["project"].(map[string]interface{})
	assert.Equal(t, float64(1), project["id"])
	imageName := project["image"].(string)
	assert.True(t, strings.HasSuffix(imageName, ".png"))
	_, err := os.Stat(filepath.Join(ts.uploads.Dir(), imageName))
	require.NoError(t, err)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/static/uploads/"+imageName, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bridge")

	// Status-only edit keeps the other fields and the image
	rec = ts.do(multipartRequest(t, "/admin/project/edit/1", map[string]string{"status": "Completed"}, ""), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/project/1", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)["project"].(map[string]interface{})
	assert.Equal(t, "Completed", got["status"])
	assert.Equal(t, "Bridge", got["title"])
	assert.Equal(t, "Steel bridge", got["description"])
	assert.Equal(t, imageName, got["image"])

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/admin/project/delete/1", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = os.Stat(filepath.Join(ts.uploads.Dir(), imageName))
	assert.True(t, os.IsNotExist(err))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/project/1", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProject_Errors(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	rec := ts.do(multipartRequest(t, "/admin/project/add", map[string]string{"title": "x"}, ""), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(multipartRequest(t, "/admin/project/add", map[string]string{
		"title": "t", "description": "d", "category": "c", "status": "s",
	}, "payload.exe"), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid file type.", decode(t, rec)["message"])

	rec = ts.do(multipartRequest(t, "/admin/project/edit/42", map[string]string{"status": "x"}, ""), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/project/abc", nil), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/admin/project/delete/42", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTestimonial_AddAndGet(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	rec := ts.do(multipartRequest(t, "/admin/testimonial/add", map[string]string{
		"name": "Asha", "company": "Kiran Builders", "text": "Great work", "rating": "5",
	}, ""), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/api/testimonial/1", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode(t, rec)["testimonial"].(map[string]interface{})
	assert.Equal(t, "Asha", got["name"])
	assert.Equal(t, float64(5), got["rating"])
	assert.Nil(t, got["image"])

	rec = ts.do(multipartRequest(t, "/admin/testimonial/edit/1", map[string]string{"rating": "nine"}, ""), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(multipartRequest(t, "/admin/testimonial/add", map[string]string{
		"name": "n", "company": "c", "text": "t", "rating": "7",
	}, ""), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMessage_StatusAndDelete(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"A","email":"a@x.com","phone":"1","service":"S","message":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusOK, ts.do(req).Code)

	form := url.Values{"status": {"Contacted"}}
	req = httptest.NewRequest(http.MethodPost, "/admin/message/status/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := ts.do(req, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Contacted", decode(t, rec)["data"].(map[string]interface{})["status"])

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/admin/message/delete/1", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/admin/message/delete/1", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, target := range []string{"/health", "/health/detailed", "/ready"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_records")
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUnknownRouteUsesJSONEnvelope(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["success"])
}

func TestDashboard_EditControls(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	rec := ts.do(multipartRequest(t, "/admin/project/add", map[string]string{
		"title": "Bridge", "description": "d", "category": "c", "status": "Ongoing",
	}, ""), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = ts.do(multipartRequest(t, "/admin/testimonial/add", map[string]string{
		"name": "Asha", "company": "Kiran Builders", "text": "Great work", "rating": "5",
	}, ""), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `data-edit="project" data-id="1"`)
	assert.Contains(t, body, `data-edit="testimonial" data-id="1"`)
	assert.Contains(t, body, `fetch('/api/' + type + '/' + btn.dataset.id)`)
	assert.Contains(t, body, `'/admin/' + type + '/edit/' + id`)
	assert.Equal(t, 2, strings.Count(body, `<input name="id" type="hidden">`))
}

func TestDashboard_KeepsUnlistedMessageStatus(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.session()

	require.NoError(t, database.Write(ts.store, database.MessagesFile, []*entities.Message{
		{ID: 1, Name: "A", Email: "a@x.com", Phone: "1", Service: "S", Message: "hi", Status: "Escalated"},
		{ID: 2, Name: "B", Email: "b@x.com", Phone: "2", Service: "S", Message: "hi", Status: "Contacted"},
	}))

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `<option value="Escalated" selected>Escalated</option>`)
	assert.Equal(t, 1, strings.Count(body, `value="Escalated"`))
	assert.Equal(t, 1, strings.Count(body, `<option value="Contacted" selected>`))
}
