package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/golang-jwt/jwt/v5"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/controller/server"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/mock"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"github.com/m-mizutani/scanstream/pkg/infra/broadcast"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/repository/memory"
	"github.com/m-mizutani/scanstream/pkg/usecase"
)

const testSecret types.JWTSecret = "test-secret-for-hs256"

func signToken(t *testing.T, secret types.JWTSecret, subject string, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	})
	return gt.R1(token.SignedString([]byte(secret))).NoError(t)
}

type testEnv struct {
	srv     *server.Server
	repo    interfaces.ScanRepository
	hub     *broadcast.Hub
	project *model.Project
	owner   types.UserID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := memory.New()
	hub := broadcast.New()
	t.Cleanup(hub.Close)
	m := metrics.New()

	owner := types.UserID("alice")
	project := &model.Project{ID: types.NewProjectID(), Name: "api", OwnerID: owner, CreatedAt: time.Now().UTC()}
	gt.NoError(t, repo.CreateProject(context.Background(), project))

	uc := usecase.New(infra.New(
		infra.WithScanRepository(repo),
		infra.WithBroadcaster(hub),
		infra.WithMetrics(m),
	))

	return &testEnv{
		srv: server.New(uc,
			server.WithJWTSecret(testSecret),
			server.WithHub(hub),
			server.WithMetrics(m),
		),
		repo:    repo,
		hub:     hub,
		project: project,
		owner:   owner,
	}
}

func (x *testEnv) do(t *testing.T, actor types.UserID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw := gt.R1(json.Marshal(body)).NoError(t)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, string(actor), time.Hour))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	x.srv.Mux().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRouterSmokeTests(t *testing.T) {
	env := newTestEnv(t)

	t.Run("GET /health returns 200", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		env.srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, rec.Body.String()).Equal("ok")
	})

	t.Run("GET /metrics exposes counters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rec := httptest.NewRecorder()
		env.srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.True(t, strings.Contains(rec.Body.String(), "scanstream_subscribers"))
	})

	t.Run("optional endpoints are absent by default", func(t *testing.T) {
		srv := server.New(usecase.New(infra.New()))
		for _, path := range []string{"/metrics", "/ws"} {
			rec := httptest.NewRecorder()
			srv.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			gt.V(t, rec.Code).Equal(http.StatusNotFound)
		}
	})
}

func TestScanAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.owner, http.MethodPost, "/api/scans", map[string]any{
		"project_id":  env.project.ID,
		"scan_config": map[string]any{"rules": "default"},
	})
	gt.V(t, rec.Code).Equal(http.StatusCreated)
	scan := decode[model.Scan](t, rec)
	gt.V(t, scan.Status).Equal(types.ScanStatusPending)
	gt.V(t, scan.ScanConfig["rules"]).Equal(any("default"))

	t.Run("add files", func(t *testing.T) {
		rec := env.do(t, env.owner, http.MethodPost, "/api/scans/"+string(scan.ID)+"/files", []map[string]any{
			{"file_path": "main.go", "language": "go"},
			{"file_path": "util.go"},
		})
		gt.V(t, rec.Code).Equal(http.StatusCreated)
		files := decode[[]model.ScanFile](t, rec)
		gt.V(t, len(files)).Equal(2)
	})

	t.Run("empty file batch", func(t *testing.T) {
		rec := env.do(t, env.owner, http.MethodPost, "/api/scans/"+string(scan.ID)+"/files", []map[string]any{})
		gt.V(t, rec.Code).Equal(http.StatusCreated)
		gt.V(t, strings.TrimSpace(rec.Body.String())).Equal("[]")
	})

	t.Run("add vulnerabilities", func(t *testing.T) {
		rec := env.do(t, env.owner, http.MethodPost, "/api/scans/"+string(scan.ID)+"/vulnerabilities", []map[string]any{
			{"type": "xss", "severity": "high", "file_path": "main.go", "line_number": 3, "message": "unescaped output"},
		})
		gt.V(t, rec.Code).Equal(http.StatusCreated)
		vulns := decode[[]model.Vulnerability](t, rec)
		gt.V(t, len(vulns)).Equal(1)
		gt.V(t, vulns[0].Status).Equal(types.VulnStatusOpen)

		rec = env.do(t, env.owner, http.MethodPatch, "/api/vulnerabilities/"+string(vulns[0].ID)+"/status", map[string]any{
			"status": "resolved",
			"notes":  "escaped with html/template",
		})
		gt.V(t, rec.Code).Equal(http.StatusOK)
		updated := decode[model.Vulnerability](t, rec)
		gt.V(t, updated.Status).Equal(types.VulnStatusResolved)
		gt.True(t, updated.ResolvedAt != nil)

		rec = env.do(t, env.owner, http.MethodGet, "/api/vulnerabilities/"+string(vulns[0].ID), nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)

		rec = env.do(t, env.owner, http.MethodGet, "/api/vulnerabilities?scan_id="+string(scan.ID)+"&limit=10", nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, len(decode[[]model.Vulnerability](t, rec))).Equal(1)
	})

	t.Run("complete the scan", func(t *testing.T) {
		rec := env.do(t, env.owner, http.MethodPatch, "/api/scans/"+string(scan.ID), map[string]any{
			"status":          "completed",
			"total_files":     2,
			"files_processed": 2,
		})
		gt.V(t, rec.Code).Equal(http.StatusOK)
		updated := decode[model.Scan](t, rec)
		gt.V(t, updated.Status).Equal(types.ScanStatusCompleted)
		gt.True(t, updated.CompletedAt != nil)

		rec = env.do(t, env.owner, http.MethodGet, "/api/scans/"+string(scan.ID), nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		detail := decode[model.ScanDetail](t, rec)
		gt.V(t, detail.TotalFiles).Equal(2)
		gt.V(t, len(detail.Vulnerabilities)).Equal(1)

		rec = env.do(t, env.owner, http.MethodGet, "/api/scans", nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, len(decode[[]model.Scan](t, rec))).Equal(1)
	})

	t.Run("terminal scan refuses to run again", func(t *testing.T) {
		rec := env.do(t, env.owner, http.MethodPatch, "/api/scans/"+string(scan.ID), map[string]any{"status": "running"})
		gt.V(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("stranger gets 404", func(t *testing.T) {
		rec := env.do(t, "mallory", http.MethodGet, "/api/scans/"+string(scan.ID), nil)
		gt.V(t, rec.Code).Equal(http.StatusNotFound)

		rec = env.do(t, "mallory", http.MethodGet, "/api/scans", nil)
		gt.V(t, rec.Code).Equal(http.StatusOK)
		gt.V(t, strings.TrimSpace(rec.Body.String())).Equal("[]")
	})
}

func TestAPIErrors(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		code   int
	}{
		{name: "malformed json", method: http.MethodPost, path: "/api/scans", body: `{"project_id":`, code: http.StatusBadRequest},
		{name: "missing project", method: http.MethodPost, path: "/api/scans", body: `{}`, code: http.StatusBadRequest},
		{name: "unknown project", method: http.MethodPost, path: "/api/scans", body: `{"project_id":"nope"}`, code: http.StatusNotFound},
		{name: "unknown scan", method: http.MethodGet, path: "/api/scans/nope", code: http.StatusNotFound},
		{name: "files body must be an array", method: http.MethodPost, path: "/api/scans/nope/files", body: `{"file_path":"a"}`, code: http.StatusBadRequest},
		{name: "bad severity", method: http.MethodPost, path: "/api/scans/nope/vulnerabilities", body: `[{"type":"x","severity":"urgent","file_path":"a","message":"m"}]`, code: http.StatusBadRequest},
		{name: "bad limit", method: http.MethodGet, path: "/api/vulnerabilities?limit=abc", code: http.StatusBadRequest},
		{name: "unknown vulnerability", method: http.MethodGet, path: "/api/vulnerabilities/nope", code: http.StatusNotFound},
		{name: "test scan file count too large", method: http.MethodPost, path: "/api/scans/test", body: `{"files":1099511627776}`, code: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, string(env.owner), time.Hour))
			rec := httptest.NewRecorder()
			env.srv.Mux().ServeHTTP(rec, req)

			gt.V(t, rec.Code).Equal(tc.code)
			resp := decode[map[string]string](t, rec)
			gt.True(t, resp["error"] != "")
		})
	}

	t.Run("store failure is hidden behind 500", func(t *testing.T) {
		uc := &mock.UseCaseMock{
			ListScansFunc: func(ctx context.Context, actor types.UserID) ([]*model.Scan, error) {
				return nil, errors.New("dial tcp 10.0.0.5:5432: connection refused")
			},
		}
		srv := server.New(uc, server.WithJWTSecret(testSecret))

		req := httptest.NewRequest(http.MethodGet, "/api/scans", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "alice", time.Hour))
		rec := httptest.NewRecorder()
		srv.Mux().ServeHTTP(rec, req)

		gt.V(t, rec.Code).Equal(http.StatusInternalServerError)
		gt.V(t, strings.Contains(rec.Body.String(), "10.0.0.5")).Equal(false)
	})
}

func TestCreateTestScanAPI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, env.owner, http.MethodPost, "/api/scans/test", nil)
	gt.V(t, rec.Code).Equal(http.StatusCreated)
	scan := decode[model.Scan](t, rec)
	gt.V(t, scan.Status).Equal(types.ScanStatusCompleted)
	gt.V(t, scan.TotalFiles).Equal(model.DefaultTestScanFiles)

	rec = env.do(t, env.owner, http.MethodPost, "/api/scans/test", map[string]any{"files": 2, "vulnerabilities": 0})
	gt.V(t, rec.Code).Equal(http.StatusCreated)
	gt.V(t, decode[model.Scan](t, rec).TotalFiles).Equal(2)
}

type wsMessage struct {
	Type types.MessageType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

func dialWebSocket(t *testing.T, env *testEnv) (*websocket.Conn, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(env.srv.Mux())
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, strings.Replace(ts.URL, "http://", "ws://", 1)+"/ws", nil)
	gt.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })

	deadline := time.Now().Add(5 * time.Second)
	for env.hub.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn, ts
}

func readMessage(t *testing.T, conn *websocket.Conn) wsMessage {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	typ, raw, err := conn.Read(ctx)
	gt.NoError(t, err)
	gt.V(t, typ).Equal(websocket.MessageText)

	var msg wsMessage
	gt.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func TestWebSocket(t *testing.T) {
	env := newTestEnv(t)
	conn, ts := dialWebSocket(t, env)

	// a full ingestion through the HTTP API reaches the subscriber
	doReal := func(method, path string, body string) int {
		req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
		gt.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, string(env.owner), time.Hour))
		resp, err := http.DefaultClient.Do(req)
		gt.NoError(t, err)
		defer resp.Body.Close()
		return resp.StatusCode
	}

	gt.V(t, doReal(http.MethodPost, "/api/scans/test", `{"files":4,"vulnerabilities":1}`)).Equal(http.StatusCreated)

	first := readMessage(t, conn)
	gt.V(t, first.Type).Equal(types.MessageScanProgress)
	var progress model.ProgressMessage
	gt.NoError(t, json.Unmarshal(first.Data, &progress))
	gt.V(t, progress.TotalFiles).Equal(4)
	gt.V(t, progress.Percentage).Equal(0)

	second := readMessage(t, conn)
	gt.NoError(t, json.Unmarshal(second.Data, &progress))
	gt.V(t, progress.Percentage).Equal(100)

	vuln := readMessage(t, conn)
	gt.V(t, vuln.Type).Equal(types.MessageScanVulnerability)

	complete := readMessage(t, conn)
	gt.V(t, complete.Type).Equal(types.MessageScanComplete)
	var ev model.CompleteEvent
	gt.NoError(t, json.Unmarshal(complete.Data, &ev))
	gt.V(t, ev.Summary.TotalFiles).Equal(4)
}

func TestWebSocketClosedOnShutdown(t *testing.T) {
	env := newTestEnv(t)
	conn, _ := dialWebSocket(t, env)

	env.hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _, err := conn.Read(ctx)
	gt.V(t, websocket.CloseStatus(err)).Equal(websocket.StatusGoingAway)
}
