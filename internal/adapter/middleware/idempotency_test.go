package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/channor/open-manage/internal/domain/user"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

const testUserHeader = "X-Test-User"

// fakeAuth stands in for Auth: the user id comes from a test header.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		switch c.Request().Header.Get(testUserHeader) {
		case "7":
			SetActor(c, &user.User{ID: 7})
		case "8":
			SetActor(c, &user.User{ID: 8})
		}
		return next(c)
	}
}

func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	logger, _ := logtest.NewNullLogger()
	e := echo.New()
	e.HideBanner = true
	e.Use(fakeAuth, Idempotency(rdb, ttl, logger))
	e.POST("/absences", handler)
	e.GET("/absences", handler)
	e.POST("/absences/:absence_id/approve", handler)
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

func validHeaders() map[string]string {
	return map[string]string{
		"Ax-Request-Id": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
		testUserHeader:  "7",
	}
}

// counts handler invocations so replays are observable
func countingHandler(n *int) echo.HandlerFunc {
	return func(c echo.Context) error {
		*n++
		return c.JSON(http.StatusCreated, map[string]any{"call": *n})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/absences", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))

	tests := []struct {
		name   string
		mutate func(h map[string]string)
		want   int
	}{
		{"no actor", func(h map[string]string) { delete(h, testUserHeader) }, http.StatusUnauthorized},
		{"missing Ax-Request-Id", func(h map[string]string) { delete(h, "Ax-Request-Id") }, http.StatusBadRequest},
		{"invalid Ax-Request-Id", func(h map[string]string) { h["Ax-Request-Id"] = "NOT-VALID" }, http.StatusBadRequest},
		{"invalid Ax-Request-At", func(h map[string]string) { h["Ax-Request-At"] = "not-a-time" }, http.StatusBadRequest},
		{"skewed Ax-Request-At", func(h map[string]string) {
			h["Ax-Request-At"] = time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339)
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHeaders()
			tt.mutate(h)
			rec := doReq(t, e, http.MethodPost, "/absences", mkJSONBody(t, map[string]int{"x": 1}), h)
			if rec.Code != tt.want {
				t.Fatalf("want %d, got %d body=%s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
	if n != 0 {
		t.Fatalf("handler must not run on rejected requests, ran %d times", n)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))

	h := validHeaders()
	rec1 := doReq(t, e, http.MethodPost, "/absences", mkJSONBody(t, map[string]any{"absence_type_id": 1}), h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}

	rec2 := doReq(t, e, http.MethodPost, "/absences", mkJSONBody(t, map[string]any{"absence_type_id": 1}), h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
}

func Test_SameRequestID_DifferentUsers_AreIndependent(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))

	h := validHeaders()
	doReq(t, e, http.MethodPost, "/absences", mkJSONBody(t, map[string]int{"x": 1}), h)
	h[testUserHeader] = "8"
	rec := doReq(t, e, http.MethodPost, "/absences", mkJSONBody(t, map[string]int{"x": 1}), h)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second user => want 201, got %d", rec.Code)
	}
	if n != 2 {
		t.Fatalf("handler ran %d times, want 2", n)
	}
}

func Test_SameRequestID_DifferentAbsences_AreIndependent(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	calls := map[string]int{}
	e := setupEcho(rdb, 2*time.Minute, func(c echo.Context) error {
		id := c.Param("absence_id")
		calls[id]++
		return c.JSON(http.StatusOK, map[string]string{"absence_id": id})
	})

	first := strings.Repeat("a", 32)
	second := strings.Repeat("b", 32)
	h := validHeaders()
	for _, absenceID := range []string{first, second, first} {
		rec := doReq(t, e, http.MethodPost, "/absences/"+absenceID+"/approve", nil, h)
		if rec.Code != http.StatusOK {
			t.Fatalf("approve %s => want 200, got %d body=%s", absenceID, rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), absenceID) {
			t.Fatalf("approve %s answered with %s", absenceID, rec.Body.String())
		}
	}
	if calls[first] != 1 || calls[second] != 1 {
		t.Fatalf("handler calls = %v, want one per absence", calls)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))

	reqID := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	body := []byte(`{"x":1}`)

	key := buildKey(http.MethodPost, "/absences", "7", reqID)
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   reqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/absences", bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	mr, rdb := newMiniredisClient(t)
	defer mr.Close()
	var n int
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))

	reqID := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	key := buildKey(http.MethodPost, "/absences", "7", reqID)
	final := idempEntry{
		Code:        http.StatusCreated,
		Body:        []byte(`{"ok":true}`),
		BodySHA256:  bodyHash([]byte(`{"x":1}`)),
		RequestID:   reqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, key, final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, "/absences", bytes.NewReader([]byte(`{"x":2}`)), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same reqID => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	var n int
	e := setupEcho(rdb, time.Minute, countingHandler(&n))

	rec := doReq(t, e, http.MethodPost, "/absences", bytes.NewReader([]byte(`{}`)), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
