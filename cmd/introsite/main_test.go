package main

import (
	"bytes"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/vango-dev/introsite/internal/errors"
)

// TestMain lets tests re-run the binary as the real CLI.
func TestMain(m *testing.M) {
	if os.Getenv("INTROSITE_RUN_MAIN") == "1" {
		os.Args = append([]string{os.Args[0]}, strings.Fields(os.Getenv("INTROSITE_ARGS"))...)
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionShort(t *testing.T) {
	out, err := runCLI(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version --short = %q, want %q", out, version)
	}
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<body><!--ssr-outlet--><script type=\"module\" src=\"/entry-client.js\"></script></body>"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "build", "--dir", dir, "--export-shape", "default")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Build complete") {
		t.Errorf("output missing completion line:\n%s", out)
	}
	if !strings.Contains(out, "built-in client") {
		t.Errorf("output missing embedded client warning:\n%s", out)
	}
	for _, p := range []string{"dist/client/index.html", "dist/server/entry-server.json", "dist/manifest.json"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(p))); err != nil {
			t.Errorf("%s: %v", p, err)
		}
	}
}

func TestBuildCommandInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "introsite.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, "build", "--dir", dir); !errors.HasCode(err, "E120") {
		t.Errorf("build error = %v, want E120", err)
	}
}

func TestPublishCommandNeedsCredentials(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")

	if _, err := runCLI(t, "publish", "--dir", t.TempDir(), "--bucket", "b"); !errors.HasCode(err, "E150") {
		t.Errorf("publish error = %v, want E150", err)
	}
}

func TestServeInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := runCLI(t, "serve", "--dir", t.TempDir()); !errors.HasCode(err, "E122") {
		t.Errorf("serve error = %v, want E122", err)
	}
}

func TestServePortInUseExitsNonZero(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	cmd.Env = append(os.Environ(),
		"INTROSITE_RUN_MAIN=1",
		"INTROSITE_ARGS=serve --dir "+t.TempDir()+" --host 127.0.0.1",
		"NODE_ENV=production",
		"PORT="+strconv.Itoa(port),
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("Run() error = %v, want exit error", err)
	}
	if exitErr.ExitCode() != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
	}
	for _, want := range []string{"port already in use", "E210", strconv.Itoa(port)} {
		if !strings.Contains(stderr.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr.String())
		}
	}
}
