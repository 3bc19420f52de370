package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"realestate-backend/internal/domain/user"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testKey = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// fakeAuth stands in for JWTAuth; X-Test-User selects the actor.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Header.Get("X-Test-User") {
		case "":
			return next(c)
		case "2":
			WithActor(c, Actor{UserID: 2, Role: user.RoleBuyer})
		default:
			WithActor(c, Actor{UserID: 1, Role: user.RoleBuyer})
		}
		return next(c)
	}
}

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(fakeAuth, IdempotencyMiddleware(rdb, ttl))
	e.POST("/featured", handler)
	e.GET("/featured", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

// counting handler to prove replays skip the handler
func countingHandler(n *atomic.Int32, code int) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := n.Add(1)
		return c.JSON(code, map[string]any{"call": v})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/featured", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n, http.StatusCreated))

	tests := []struct {
		name string
		hdr  map[string]string
		want int
	}{
		{name: "missing key", hdr: map[string]string{"X-Test-User": "1"}, want: http.StatusBadRequest},
		{name: "invalid key", hdr: map[string]string{"X-Test-User": "1", HeaderIdempotencyKey: "NOT-VALID"}, want: http.StatusBadRequest},
		{name: "no actor", hdr: map[string]string{HeaderIdempotencyKey: testKey}, want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, map[string]int{"x": 1}), tt.hdr)
			if rec.Code != tt.want {
				t.Fatalf("want %d, got %d", tt.want, rec.Code)
			}
		})
	}
	if n.Load() != 0 {
		t.Fatalf("handler must not run on rejected requests, ran %d times", n.Load())
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n atomic.Int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	h := map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "1"}

	rec1 := doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, map[string]any{"property_id": 5}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	rec2 := doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, map[string]any{"property_id": 5}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get("Idempotent-Replayed") != "true" {
		t.Fatal("replay must be flagged")
	}
	if n.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", n.Load())
	}
}

func Test_SameKey_DifferentActors_AreIndependent(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n atomic.Int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	body := map[string]any{"property_id": 5}
	doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, body), map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "1"})
	doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, body), map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "2"})

	if n.Load() != 2 {
		t.Fatalf("handler ran %d times, want 2", n.Load())
	}
}

func Test_ServerError_IsNotStored(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n atomic.Int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusBadGateway))

	h := map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "1"}
	doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, map[string]int{"x": 1}), h)
	rec := doReq(t, e, http.MethodPost, "/featured", mkJSONBody(t, map[string]int{"x": 1}), h)

	if rec.Code != http.StatusBadGateway || n.Load() != 2 {
		t.Fatalf("retry after 5xx must reach handler: code=%d calls=%d", rec.Code, n.Load())
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n atomic.Int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	body := []byte(`{"x":1}`)
	key := buildKey(http.MethodPost, "/featured", 1, testKey)
	entry := idempEntry{
		InProgress: true,
		BodySHA256: bodyHash(body),
		Key:        testKey,
		CreatedAt:  time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/featured", bytes.NewReader(body), map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n atomic.Int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n, http.StatusCreated))

	key := buildKey(http.MethodPost, "/featured", 1, testKey)
	final := idempEntry{
		Code:       http.StatusCreated,
		Body:       []byte(`{"ok":true}`),
		BodySHA256: bodyHash([]byte(`{"x":1}`)),
		Key:        testKey,
		CreatedAt:  time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/featured", bytes.NewReader([]byte(`{"x":2}`)), map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same key => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	// closed address → SetNX error
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	rec := doReq(t, e, http.MethodPost, "/featured", bytes.NewReader([]byte(`{}`)), map[string]string{HeaderIdempotencyKey: testKey, "X-Test-User": "1"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
