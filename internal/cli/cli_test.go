package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/erazemk/itemdesk/internal/api"
	"github.com/erazemk/itemdesk/internal/client"
	"github.com/erazemk/itemdesk/internal/db"
	"github.com/erazemk/itemdesk/internal/model"
)

// keepDefaultLogger restores the process-wide logger after a test replaces it.
func keepDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// newBackend serves the reference API under /test, like the public one.
func newBackend(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(backendHandler(api.NewRouter(db.NewTestDB(t)), "/test"))
	t.Cleanup(srv.Close)
	return srv.URL + "/test"
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	keepDefaultLogger(t)

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decoding output %q: %v", out, err)
	}
	return v
}

func TestItemsCommands(t *testing.T) {
	base := newBackend(t)

	out, err := execute(t, "--api", base, "items", "create", "--title", "Write report", "--text", "Due **Friday**", "--status", "1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := decode[model.Item](t, out)
	if created.ID == 0 || created.Title != "Write report" || created.Status != model.StatusActive {
		t.Fatalf("unexpected created item %+v", created)
	}

	out, err = execute(t, "--api", base, "items", "create", "--title", "Second", "--text", "body")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	second := decode[model.Item](t, out)

	out, err = execute(t, "--api", base, "items", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	items := decode[[]model.Item](t, out)
	if len(items) != 2 || items[0].ID != created.ID || items[1].ID != second.ID {
		t.Fatalf("unexpected list %+v", items)
	}
	if items[0].Text != "Due **Friday**" {
		t.Errorf("list should include details, got %+v", items[0])
	}
	if strings.Contains(out, "showDetails") {
		t.Error("presentation flag leaked into output")
	}

	id := strconv.FormatInt(created.ID, 10)
	out, err = execute(t, "--api", base, "items", "update", id, "--status", "2")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	updated := decode[model.Item](t, out)
	if updated.Status != model.StatusDone || updated.Title != "Write report" || updated.Text != "Due **Friday**" {
		t.Errorf("update should only change status, got %+v", updated)
	}

	out, err = execute(t, "--api", base, "items", "get", id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := decode[model.Item](t, out); got.Status != model.StatusDone {
		t.Errorf("get after update returned %+v", got)
	}

	if _, err := execute(t, "--api", base, "items", "delete", id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	out, err = execute(t, "--api", base, "items", "list")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if items := decode[[]model.Item](t, out); len(items) != 1 || items[0].ID != second.ID {
		t.Errorf("unexpected list after delete %+v", items)
	}
}

func TestItemsListEmpty(t *testing.T) {
	out, err := execute(t, "--api", newBackend(t), "items", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty array, got %q", out)
	}
}

func TestItemsCreateRequiresFields(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	_, err := execute(t, "--api", srv.URL, "items", "create", "--title", "only title")
	if err == nil || !strings.Contains(err.Error(), "text") {
		t.Fatalf("expected missing text error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no request, got %d", calls)
	}
}

func TestItemsErrors(t *testing.T) {
	base := newBackend(t)

	_, err := execute(t, "--api", base, "items", "get", "42")
	if !client.IsNotFound(err) {
		t.Errorf("get missing: expected not found, got %v", err)
	}

	_, err = execute(t, "--api", base, "items", "delete", "42")
	if err == nil || err.Error() != "item 42 not found" {
		t.Errorf("delete missing: got %v", err)
	}

	_, err = execute(t, "--api", base, "items", "get", "abc")
	if err == nil || !strings.Contains(err.Error(), "invalid item id") {
		t.Errorf("bad id: got %v", err)
	}

	_, err = execute(t, "--api", base, "items", "create", "--title", "t", "--text", "x", "--status", "7")
	if err == nil {
		t.Error("expected out of range status to fail")
	}

	_, err = execute(t, "--api", "ftp://example.com", "items", "list")
	if err == nil {
		t.Error("expected unsupported scheme to fail")
	}
}

func TestAPIURLFromEnvironment(t *testing.T) {
	base := newBackend(t)
	t.Setenv("ITEMDESK_API", base)

	out, err := execute(t, "items", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("expected empty array from env backend, got %q", out)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("ITEMDESK_TEST_KEY", "")
	if got := envOr("ITEMDESK_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
	t.Setenv("ITEMDESK_TEST_KEY", "set")
	if got := envOr("ITEMDESK_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("expected env value, got %q", got)
	}
}

func TestLevelRouter(t *testing.T) {
	keepDefaultLogger(t)

	var stdout, stderr bytes.Buffer
	closeLog, err := setupLogger(&stdout, &stderr, "")
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	defer closeLog()

	slog.Debug("hidden")
	slog.Info("hello", "id", 1)
	slog.With("component", "test").Warn("careful")
	slog.Error("boom", "error", "bad")

	if strings.Contains(stdout.String(), "hidden") {
		t.Error("debug records should be dropped")
	}
	if !strings.Contains(stdout.String(), "msg=hello id=1") {
		t.Errorf("expected info on stdout, got %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "component=test") {
		t.Errorf("expected attrs carried through WithAttrs, got %q", stdout.String())
	}
	if strings.Contains(stdout.String(), "boom") {
		t.Error("errors must not go to stdout")
	}
	if !strings.Contains(stderr.String(), "msg=boom") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestSetupLoggerTeesToFile(t *testing.T) {
	keepDefaultLogger(t)
	path := filepath.Join(t.TempDir(), "itemdesk.log")

	closeLog, err := setupLogger(io.Discard, io.Discard, path)
	if err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	slog.Info("to file")
	slog.Error("also to file")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "to file") || !strings.Contains(string(data), "also to file") {
		t.Errorf("expected both levels in file, got %q", data)
	}
}

func TestSetupFileLogger(t *testing.T) {
	keepDefaultLogger(t)

	closeLog, err := setupFileLogger("")
	if err != nil {
		t.Fatalf("setupFileLogger: %v", err)
	}
	closeLog()

	path := filepath.Join(t.TempDir(), "tui.log")
	closeLog, err = setupFileLogger(path)
	if err != nil {
		t.Fatalf("setupFileLogger: %v", err)
	}
	slog.Error("error fetching items", "error", "offline")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "error fetching items") {
		t.Errorf("expected record in file, got %q", data)
	}

	if _, err := setupFileLogger(filepath.Join(t.TempDir(), "missing", "x.log")); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestBackendHandlerPrefix(t *testing.T) {
	database := db.NewTestDB(t)

	tests := []struct {
		prefix string
		path   string
		want   int
	}{
		{"", "/", http.StatusOK},
		{"/test", "/test/", http.StatusOK},
		{"test/", "/test/", http.StatusOK},
		{"/test", "/", http.StatusNotFound},
		{"/test", "/test/9", http.StatusNotFound},
	}

	for _, tt := range tests {
		h := backendHandler(api.NewRouter(database), tt.prefix)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("prefix %q GET %s: expected %d, got %d", tt.prefix, tt.path, tt.want, rec.Code)
		}
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	keepDefaultLogger(t)
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, ln, newServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestItemsCommandsWriteLogFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "items.log")
	if _, err := execute(t, "--api", srv.URL, "--log", path, "items", "list"); err == nil {
		t.Fatal("expected list to fail")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "error fetching items") {
		t.Errorf("expected the failure in the log file, got %q", data)
	}

	envPath := filepath.Join(t.TempDir(), "env.log")
	t.Setenv("ITEMDESK_LOG", envPath)
	execute(t, "--api", srv.URL, "items", "list")
	if data, err := os.ReadFile(envPath); err != nil || !strings.Contains(string(data), "error fetching items") {
		t.Errorf("expected ITEMDESK_LOG to be honoured, got %q (%v)", data, err)
	}
}
