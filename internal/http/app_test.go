package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"

	"numa/internal/config"
	"numa/internal/http/handlers"
	"numa/internal/repos"
	"numa/web"
)

const (
	testSecret   = "test-jwt-secret"
	cronSecret   = "cron-secret"
	adminEmail   = "admin@numa.test"
	adminPass    = "Passw0rd!"
	shopierKey   = "shop-key"
	shopierSec   = "shop-secret"
	shopierIndex = "1"
)

func testConfig() config.Config {
	return config.Config{
		DBDriver:            "sqlite",
		DBDSN:               ":memory:",
		SiteURL:             "https://numa.test",
		JWTSecret:           testSecret,
		ShopierAPIKey:       shopierKey,
		ShopierAPISecret:    shopierSec,
		ShopierWebsiteIndex: shopierIndex,
		ShopierPaymentURL:   "https://gw.test/pay",
		CronSecret:          cronSecret,
		GeminiModel:         "test-model",
		ReadFallback:        true,
	}
}

type testApp struct {
	app  *fiber.App
	deps *handlers.Deps
	db   *sqlx.DB
}

func newTestApp(t *testing.T, images handlers.ImageStore) *testApp {
	t.Helper()
	cfg := testConfig()
	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repos.SeedAdmin(db, adminEmail, adminPass); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	app := fiber.New(fiber.Config{Views: engine, ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())

	deps := handlers.NewDeps(db, cfg, engine, images)
	t.Cleanup(deps.Scheduler.Stop)
	handlers.Mount(app, deps)
	return &testApp{app: app, deps: deps, db: db}
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": adminEmail,
		"role":  role,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func jsonReq(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func (ta *testApp) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp, out
}

func (ta *testApp) admin(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin"))
	return ta.do(t, req)
}

func cookieOf(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Admin  string         `json:"admin"`
	ReqID  string         `json:"req_id"`
	Err    string         `json:"err"`
	Fields map[string]any `json:"fields"`
}

type lockedBuf struct {
	b  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedBuf{b: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}

type fakeAI struct {
	text string
	err  error
}

func (f fakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

type fakeImages struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeImages) Put(ctx context.Context, key string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "https://cdn.numa.test/" + key, nil
}
