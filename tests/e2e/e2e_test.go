package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"careers/internal/database"
	"careers/internal/domain/admin"
	"careers/internal/domain/application"
	"careers/internal/domain/storage"
	"careers/internal/middleware"
	jwtsvc "careers/internal/pkg/jwt"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "e2e-password"
)

type suite struct {
	router *gin.Engine
}

func setupSuite(t *testing.T) *suite {
	t.Helper()

	dsn := fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(dsn)
	require.NoError(t, err, "failed to connect to test database")

	require.NoError(t, db.AutoMigrate(&application.Application{}, &application.ApplicationFile{}))

	store := storage.New(t.TempDir())
	tokens := jwtsvc.New("test_secret_key_32_characters_min", time.Hour)

	appRepo := application.NewRepository(db)
	appService := application.NewService(appRepo, store)
	appHandler := application.NewHandler(appService)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	adminService := admin.NewService(testAdminUser, string(hash), tokens)
	adminHandler := admin.NewHandler(adminService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery())

	r.Static("/uploads", store.Dir())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "Server is running"})
	})
	admin.RegisterRoutes(api, adminHandler)
	application.RegisterPublicRoutes(api, appHandler)

	protected := api.Group("/")
	protected.Use(middleware.RequireAdmin(tokens))
	application.RegisterAdminRoutes(protected, appHandler)

	return &suite{router: r}
}

func (s *suite) do(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *suite) login(t *testing.T) string {
	t.Helper()

	body := bytes.NewBufferString(fmt.Sprintf(`{"username":%q,"password":%q}`, testAdminUser, testAdminPassword))
	rec := s.do(t, http.MethodPost, "/api/admin/login", "", body, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

type formFile struct {
	field, name, contentType string
	data                     []byte
}

func submissionBody(t *testing.T, fields map[string]string, files []formFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s := setupSuite(t)

	rec := s.do(t, http.MethodGet, "/api/health", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := setupSuite(t)

	rec := s.do(t, http.MethodGet, "/api/applications", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/applications", "not-a-token", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/applications/1", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := setupSuite(t)

	body := bytes.NewBufferString(`{"username":"admin","password":"nope"}`)
	rec := s.do(t, http.MethodPost, "/api/admin/login", "", body, "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmissionScenario(t *testing.T) {
	s := setupSuite(t)
	token := s.login(t)

	body, ct := submissionBody(t,
		map[string]string{
			"name":     "Ada Lovelace",
			"email":    "ada@example.com",
			"position": "developer",
		},
		[]formFile{{"resume", "resume.txt", "text/plain", bytes.Repeat([]byte("a"), 2048)}},
	)
	rec := s.do(t, http.MethodPost, "/api/applications", "", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID      int64  `json:"id"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	assert.Equal(t, "Application submitted successfully", created.Message)

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/applications/%d", created.ID), token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var app struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Status string `json:"status"`
		Files  []struct {
			FileName string `json:"file_name"`
			FilePath string `json:"file_path"`
			Category string `json:"category"`
			FileSize int64  `json:"file_size"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &app))
	assert.Equal(t, "Ada Lovelace", app.Name)
	assert.Equal(t, "ada@example.com", app.Email)
	assert.Equal(t, "pending", app.Status)
	require.Len(t, app.Files, 1)
	assert.Equal(t, "resume.txt", app.Files[0].FileName)
	assert.Equal(t, "resume", app.Files[0].Category)
	assert.EqualValues(t, 2048, app.Files[0].FileSize)

	rec = s.do(t, http.MethodGet, "/api/applications", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestLifecycle(t *testing.T) {
	s := setupSuite(t)
	token := s.login(t)

	body, ct := submissionBody(t,
		map[string]string{
			"name":     "Grace Hopper",
			"email":    "grace@example.com",
			"position": "analyst",
		},
		[]formFile{{"resume", "resume.pdf", "application/pdf", []byte("%PDF-")}},
	)
	rec := s.do(t, http.MethodPost, "/api/applications", "", body, ct)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// toggle to reviewed, twice; the second call is a state no-op
	for i := 0; i < 2; i++ {
		rec = s.do(t, http.MethodPatch, fmt.Sprintf("/api/applications/%d/status", created.ID),
			token, bytes.NewBufferString(`{"status":"reviewed"}`), "application/json")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"status":"reviewed"`)
	}

	rec = s.do(t, http.MethodPatch, fmt.Sprintf("/api/applications/%d/status", created.ID),
		token, bytes.NewBufferString(`{"status":"archived"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/applications/%d", created.ID), token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Application deleted successfully")

	rec = s.do(t, http.MethodGet, fmt.Sprintf("/api/applications/%d", created.ID), token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/api/applications/%d", created.ID), token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmissionValidation(t *testing.T) {
	s := setupSuite(t)

	body, ct := submissionBody(t,
		map[string]string{"email": "ada@example.com", "position": "developer"},
		[]formFile{{"resume", "resume.pdf", "application/pdf", []byte("x")}},
	)
	rec := s.do(t, http.MethodPost, "/api/applications", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body, ct = submissionBody(t,
		map[string]string{"name": "Ada", "email": "ada@example.com", "position": "developer"},
		[]formFile{{"resume", "resume.exe", "", []byte("MZ")}},
	)
	rec = s.do(t, http.MethodPost, "/api/applications", "", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}
