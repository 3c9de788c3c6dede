package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ArtworksCrawler/internal/infrastructure/storage"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ARTWORKS_CRAWLER_CONFIG", "ARTWORKS_SINK", "ARTWORKS_HANDLES", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}
}

func startProfiles(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alice" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`
			<a class="ProjectCoverNeue-link" aria-label="One" href="/gallery/1/one"><img src="https://cdn.example.org/1.jpg"></a>
			<a class="ProjectCoverNeue-link" href="/gallery/2/two"></a>`))
	}))
	t.Cleanup(server.Close)
	return server
}

func writeCLIConfig(t *testing.T, server *httptest.Server, handles string) string {
	t.Helper()
	body := fmt.Sprintf(`
site:
  profileUrlFormat: %s/%%s
crawl:
  handles: %s
  requestTimeout: 2s
logging:
  level: error
`, server.URL, handles)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCrawlWritesArtifact(t *testing.T) {
	isolateEnv(t)
	server := startProfiles(t)
	cfgPath := writeCLIConfig(t, server, "[alice, bob]")
	output := filepath.Join(t.TempDir(), "behance_artworks.json")

	stdout, err := runRoot(t, "--config", cfgPath, "--output", output, "--pacing", "1ms")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	want := fmt.Sprintf("Exported 2 artworks to %s (1 of 2 handles failed)", output)
	if strings.TrimSpace(stdout) != want {
		t.Fatalf("unexpected summary: %q", stdout)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	records, err := storage.DecodeArtifact(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[1].Title != "Untitled Project" {
		t.Fatalf("unexpected records: %#v", records)
	}
}

func TestRootEmptyHandleList(t *testing.T) {
	isolateEnv(t)
	server := startProfiles(t)
	cfgPath := writeCLIConfig(t, server, "[]")
	output := filepath.Join(t.TempDir(), "artworks.json")

	stdout, err := runRoot(t, "--config", cfgPath, "-o", output)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.HasPrefix(stdout, "Exported 0 artworks") {
		t.Fatalf("unexpected summary: %q", stdout)
	}

	raw, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", raw)
	}
}

func TestRootSinkFailureReturnsError(t *testing.T) {
	isolateEnv(t)
	server := startProfiles(t)
	cfgPath := writeCLIConfig(t, server, "[alice]")

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	stdout, err := runRoot(t, "--config", cfgPath, "-o", filepath.Join(blocker, "artworks.json"))
	var sinkErr *storage.Error
	if !errors.As(err, &sinkErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
	if stdout != "" {
		t.Fatalf("no summary should be printed on failure, got %q", stdout)
	}
}

func TestRootRejectsUnknownSink(t *testing.T) {
	isolateEnv(t)
	server := startProfiles(t)
	cfgPath := writeCLIConfig(t, server, "[alice]")

	if _, err := runRoot(t, "--config", cfgPath, "--sink", "ftp"); err == nil {
		t.Fatalf("expected configuration error")
	}
}

func TestHandlesCommand(t *testing.T) {
	isolateEnv(t)
	server := startProfiles(t)
	cfgPath := writeCLIConfig(t, server, "[alice, bob]")

	stdout, err := runRoot(t, "handles", "--config", cfgPath)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if stdout != "alice\nbob\n" {
		t.Fatalf("unexpected handles output: %q", stdout)
	}

	stdout, err = runRoot(t, "handles", "--config", cfgPath, "--handles", "beeple,ignasi")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if stdout != "beeple\nignasi\n" {
		t.Fatalf("unexpected handles output: %q", stdout)
	}
}
