package dev

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/introsite/internal/config"
	"github.com/vango-dev/introsite/pkg/module"
)

const profileYAML = `title: 自己紹介ページ
sections:
  - heading: 氏名
    body: 日向野 方暉
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTransformTemplate(t *testing.T) {
	tool := NewTool(true)

	raw := "<html><body><!--ssr-outlet--></body></html>"
	out, err := tool.TransformTemplate("/", raw)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out, devScriptMarker); n != 1 {
		t.Errorf("dev script injected %d times, want 1", n)
	}
	if n := strings.Count(out, `src="/entry-client.js"`); n != 1 {
		t.Errorf("client script tag appears %d times, want 1", n)
	}
	if !strings.HasSuffix(out, "</script>\n</body></html>") {
		t.Errorf("scripts not placed before </body>: %q", out)
	}

	again, _ := tool.TransformTemplate("/", out)
	if again != out {
		t.Error("transform should be idempotent")
	}
}

func TestTransformTemplateNoHotReload(t *testing.T) {
	tool := NewTool(false)
	raw := `<body><script type="module" src="/entry-client.js"></script></body>`
	out, _ := tool.TransformTemplate("/", raw)
	if out != raw {
		t.Errorf("got %q, want template unchanged", out)
	}
}

func TestInjectBeforeBodyFallbacks(t *testing.T) {
	if got := injectBeforeBody("<html></html>", "X"); got != "<html>X</html>" {
		t.Errorf("html fallback: %q", got)
	}
	if got := injectBeforeBody("<p>", "X"); got != "<p>X" {
		t.Errorf("append fallback: %q", got)
	}
}

func TestLoadSourceModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src", "profile.yaml")
	writeFile(t, path, profileYAML)

	tool := NewTool(true)
	m, err := tool.LoadSourceModule(context.Background(), path)
	if err != nil {
		t.Fatalf("LoadSourceModule: %v", err)
	}
	fn, shape, err := module.ResolveEntry(m)
	if err != nil || shape != module.Named {
		t.Fatalf("ResolveEntry = %v, %v", shape, err)
	}
	html, _ := fn("/")
	if !strings.Contains(html, "日向野 方暉") {
		t.Errorf("render output missing body: %s", html)
	}
	if !tool.Cached(path) {
		t.Error("module should be cached")
	}

	// Cached until invalidated.
	writeFile(t, path, strings.Replace(profileYAML, "日向野 方暉", "更新済み", 1))
	m, _ = tool.LoadSourceModule(context.Background(), path)
	fn, _, _ = module.ResolveEntry(m)
	if html, _ := fn("/"); strings.Contains(html, "更新済み") {
		t.Error("cached module should not see the edit")
	}

	tool.Invalidate()
	m, _ = tool.LoadSourceModule(context.Background(), path)
	fn, _, _ = module.ResolveEntry(m)
	if html, _ := fn("/"); !strings.Contains(html, "更新済み") {
		t.Error("invalidated module should see the edit")
	}
}

func TestLoadSourceModuleErrors(t *testing.T) {
	tool := NewTool(true)
	if _, err := tool.LoadSourceModule(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tool.LoadSourceModule(ctx, "x.yaml"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func startWatcher(t *testing.T, paths ...string) (<-chan Change, context.CancelFunc) {
	t.Helper()
	w := NewWatcher(WatcherConfig{Paths: paths, Interval: 20 * time.Millisecond})
	changes := make(chan Change, 16)
	w.OnChange(func(c Change) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	time.Sleep(60 * time.Millisecond)
	return changes, cancel
}

func waitChange(t *testing.T, changes <-chan Change) Change {
	t.Helper()
	select {
	case c := <-changes:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
		return Change{}
	}
}

func TestWatcherModifiedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	writeFile(t, path, "a")

	changes, cancel := startWatcher(t, dir)
	defer cancel()

	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	c := waitChange(t, changes)
	if c.Path != path || c.Type != ChangeSource {
		t.Errorf("change = %+v, want source change of %s", c, path)
	}
}

func TestWatcherNewAndDeletedFile(t *testing.T) {
	dir := t.TempDir()
	changes, cancel := startWatcher(t, dir)
	defer cancel()

	css := filepath.Join(dir, "app.css")
	writeFile(t, css, "body{}")
	if c := waitChange(t, changes); c.Path != css || c.Type != ChangeCSS {
		t.Errorf("new file change = %+v", c)
	}

	if err := os.Remove(css); err != nil {
		t.Fatal(err)
	}
	if c := waitChange(t, changes); c.Path != css {
		t.Errorf("delete change = %+v", c)
	}
}

func TestWatcherSingleFileAndIgnore(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "index.html")
	writeFile(t, tpl, "<body></body>")

	w := NewWatcher(WatcherConfig{Paths: []string{tpl, dir}})
	if !w.shouldIgnore(filepath.Join(dir, "node_modules", "x.js")) {
		t.Error("node_modules should be ignored")
	}
	if !w.shouldIgnore(filepath.Join(dir, "a.swp")) {
		t.Error("*.swp should be ignored")
	}
	if w.shouldIgnore(tpl) {
		t.Error("template should not be ignored")
	}

	changes, cancel := startWatcher(t, tpl)
	defer cancel()
	future := time.Now().Add(time.Second)
	os.Chtimes(tpl, future, future)
	if c := waitChange(t, changes); c.Type != ChangeTemplate {
		t.Errorf("change = %+v, want template", c)
	}
}

func TestClassifyChange(t *testing.T) {
	tests := map[string]ChangeType{
		"src/profile.yml":  ChangeSource,
		"a.JSON":           ChangeSource,
		"public/app.css":   ChangeCSS,
		"client/entry.js":  ChangeScript,
		"index.html":       ChangeTemplate,
		"public/photo.png": ChangeAsset,
	}
	for path, want := range tests {
		if got := classifyChange(path); got != want {
			t.Errorf("classifyChange(%q) = %v, want %v", path, got, want)
		}
	}
}

func dialReload(t *testing.T, rs *ReloadServer) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(rs)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		srv.Close()
		t.Fatalf("Dial: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for rs.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) ReloadMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return msg
}

func TestReloadServerBroadcast(t *testing.T) {
	rs := NewReloadServer()
	conn, done := dialReload(t, rs)
	defer done()

	if rs.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", rs.ClientCount())
	}

	rs.NotifyReload()
	if msg := readMessage(t, conn); msg.Type != ReloadTypeFull {
		t.Errorf("msg = %+v, want reload", msg)
	}
	rs.NotifyCSS("app.css")
	if msg := readMessage(t, conn); msg.Type != ReloadTypeCSS || msg.File != "app.css" {
		t.Errorf("msg = %+v, want css app.css", msg)
	}
	rs.NotifyError("bad")
	if msg := readMessage(t, conn); msg.Type != ReloadTypeError || msg.Error != "bad" {
		t.Errorf("msg = %+v, want error", msg)
	}

	rs.Close()
	if rs.ClientCount() != 0 {
		t.Errorf("ClientCount after Close = %d", rs.ClientCount())
	}
}

func newDevServer(t *testing.T) (*Server, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.New(dir)
	writeFile(t, cfg.SourcePath(), profileYAML)
	writeFile(t, cfg.TemplatePath(), "<body><!--ssr-outlet--></body>")
	return NewServer(Options{
		Config: cfg,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}), cfg
}

func TestServerSourceChangeReloads(t *testing.T) {
	s, cfg := newDevServer(t)
	conn, done := dialReload(t, s.reload)
	defer done()

	ctx := context.Background()
	if _, err := s.Tool().LoadSourceModule(ctx, cfg.SourcePath()); err != nil {
		t.Fatal(err)
	}

	s.handleChanges(ctx, []Change{{Path: cfg.SourcePath(), Type: ChangeSource}})
	if msg := readMessage(t, conn); msg.Type != ReloadTypeClear {
		t.Errorf("first msg = %+v, want clear", msg)
	}
	if msg := readMessage(t, conn); msg.Type != ReloadTypeFull {
		t.Errorf("second msg = %+v, want reload", msg)
	}
	if !s.Tool().Cached(cfg.SourcePath()) {
		t.Error("source should be reloaded into the cache")
	}
}

func TestServerInvalidSourceShowsError(t *testing.T) {
	s, cfg := newDevServer(t)
	conn, done := dialReload(t, s.reload)
	defer done()

	writeFile(t, cfg.SourcePath(), "title: [\n")
	s.handleChanges(context.Background(), []Change{{Path: cfg.SourcePath(), Type: ChangeSource}})

	msg := readMessage(t, conn)
	if msg.Type != ReloadTypeError || !strings.Contains(msg.Error, "E143") {
		t.Errorf("msg = %+v, want E143 error", msg)
	}
	if s.Tool().Cached(cfg.SourcePath()) {
		t.Error("invalid source should not be cached")
	}
}

func TestServerCSSOnly(t *testing.T) {
	s, cfg := newDevServer(t)
	conn, done := dialReload(t, s.reload)
	defer done()

	css := filepath.Join(cfg.PublicPath(), "app.css")
	s.handleChanges(context.Background(), []Change{{Path: css, Type: ChangeCSS}})
	if msg := readMessage(t, conn); msg.Type != ReloadTypeCSS || msg.File != css {
		t.Errorf("msg = %+v, want css", msg)
	}
}

func TestServerStartStops(t *testing.T) {
	s, _ := newDevServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

func TestReloadHandlerDisabled(t *testing.T) {
	cfg := config.New(t.TempDir())
	off := false
	cfg.Dev.HotReload = &off
	s := NewServer(Options{Config: cfg})
	if s.ReloadHandler() != nil {
		t.Error("ReloadHandler should be nil when live reload is off")
	}
}
