package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"zamar-backend/config"
	"zamar-backend/internal/cache"
	"zamar-backend/internal/logger"
	"zamar-backend/internal/mail"
	"zamar-backend/internal/model"
	"zamar-backend/internal/payment"
	"zamar-backend/internal/repository"
	"zamar-backend/internal/routes"
	"zamar-backend/internal/storage"
	"zamar-backend/internal/testutil"
	"zamar-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret"

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	args := m.Called(ctx, req)
	sess, _ := args.Get(0).(*payment.CheckoutSession)
	return sess, args.Error(1)
}

func (m *mockGateway) ParseWebhook(payload []byte, signature string) (*payment.Event, error) {
	args := m.Called(payload, signature)
	evt, _ := args.Get(0).(*payment.Event)
	return evt, args.Error(1)
}

type testEnv struct {
	t       *testing.T
	app     *fiber.App
	db      *gorm.DB
	store   storage.Storage
	uploads string
	router  *cache.Router
	cfg     *config.Config
}

type envOption func(*config.Config)

func withWebDir(dir string) envOption {
	return func(c *config.Config) { c.Server.WebDir = dir }
}

func newTestEnv(t *testing.T, gw payment.Gateway, opts ...envOption) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Auth:      config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour},
		Stripe:    config.StripeConfig{Currency: "usd"},
		Referral:  config.ReferralConfig{DirectBPS: 1000, IndirectBPS: 500, ThresholdCents: 2000, ShareBaseURL: "https://zamar.test/join"},
		RateLimit: config.RateLimitConfig{RPS: 1000, Burst: 1000},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	log := logger.Discard()
	db := testutil.NewDB(t)

	uploads := t.TempDir()
	store, err := storage.NewLocal(uploads)
	require.NoError(t, err)

	cacheStore, err := cache.NewMemoryStore(64, time.Hour)
	require.NoError(t, err)
	router := cache.NewRouter(cacheStore, "test", log)
	t.Cleanup(router.Wait)

	app := fiber.New()
	routes.Setup(app, routes.Dependencies{
		DB:      db,
		Config:  cfg,
		Storage: store,
		Gateway: gw,
		Mailer:  mail.New(config.MailConfig{}, log),
		Cache:   router,
		Log:     log,
	})

	return &testEnv{t: t, app: app, db: db, store: store, uploads: uploads, router: router, cfg: cfg}
}

func (e *testEnv) token(u *model.User) string {
	e.t.Helper()
	auth := usecase.NewAuthUsecase(repository.NewUserRepository(e.db), repository.NewRoleRepository(e.db), testSecret, time.Hour)
	tok, err := auth.GenerateToken(u)
	require.NoError(e.t, err)
	return tok
}

func (e *testEnv) user(email, role string, referredBy *uint) *model.User {
	return testutil.CreateUser(e.t, e.db, email, role, referredBy)
}

// storedFiles counts the objects held by local storage.
func (e *testEnv) storedFiles() int {
	e.t.Helper()
	n := 0
	err := filepath.WalkDir(e.uploads, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return err
	})
	require.NoError(e.t, err)
	return n
}

// do sends req and decodes a JSON body into a map when there is one.
func (e *testEnv) do(req *http.Request) (*http.Response, map[string]interface{}) {
	e.t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	_ = resp.Body.Close()

	var body map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	return resp, body
}

func jsonRequest(method, target, token string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

type formFile struct {
	field, name, contentType string
	content                  []byte
}

func multipartRequest(t *testing.T, target, token string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="` + f.field + `"; filename="` + f.name + `"`}
		h["Content-Type"] = []string{f.contentType}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}

func dataMap(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "expected object under data, got %v", body)
	return data
}

func dataList(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	data, ok := body["data"].([]interface{})
	require.True(t, ok, "expected list under data, got %v", body)
	return data
}
