package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitkit/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func newTestNotifier() *Notifier {
	n := New()
	n.retryDelay = 0
	return n
}

func TestGetTrayAppConfigDir(t *testing.T) {
	configDir := stubConfigDir(t)
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	settings := filepath.Join(trayDir, "settings.json")

	if err := os.WriteFile(settings, []byte(`{"settings": {"lockfile_dir": "/custom/habitkit"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := GetTrayAppConfigDir(); dir != "/custom/habitkit" {
		t.Errorf("expected custom lockfile dir, got %s", dir)
	}

	if err := os.WriteFile(settings, []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := GetTrayAppConfigDir(); dir != trayDir {
		t.Errorf("expected fallback to default on malformed settings, got %s", dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfile := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    bool
	}{
		{"old two part format", "8080|12345", "habitkit-tray", true},
		{"garbage", "invalid", "habitkit-tray", true},
		{"empty secret", "8080|12345|", "habitkit-tray", true},
		{"empty port", "|12345|secret", "habitkit-tray", true},
		{"port out of range", "99999|12345|secret", "habitkit-tray", true},
		{"bad pid", "8080|abc|secret", "habitkit-tray", true},
		{"process gone", "8080|12345|secret", "", true},
		{"wrong executable", "8080|12345|secret", "other-app", true},
		{"valid", "8080|12345|secret\n", "habitkit-tray", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfile, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			stubProcess(t, tt.executable)

			port, secret, err := findAndValidateTrayProcess(lockfile)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.content)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if port != "8080" || secret != "secret" {
				t.Errorf("got port=%s secret=%s", port, secret)
			}
		})
	}

	t.Run("missing lockfile", func(t *testing.T) {
		_, _, err := findAndValidateTrayProcess(filepath.Join(t.TempDir(), "none.lock"))
		if !errors.Is(err, ErrTrayNotRunning) {
			t.Errorf("expected ErrTrayNotRunning, got %v", err)
		}
	})
}

func newTrayServer(t *testing.T, failures int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Habitkit-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Text == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if n <= failures {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func serverPort(t *testing.T, server *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	return u.Port()
}

func TestSend(t *testing.T) {
	server, _ := newTrayServer(t, 0)
	port := serverPort(t, server)
	n := newTestNotifier()
	ctx := context.Background()

	if err := n.send(ctx, port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(ctx, port, "", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.send(ctx, port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func writeLockfile(t *testing.T, configDir, port string) {
	t.Helper()
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf("%s|%d|test-secret", port, os.Getpid())
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestNotify(t *testing.T) {
	t.Run("retries until the tray accepts", func(t *testing.T) {
		server, calls := newTrayServer(t, 2)
		writeLockfile(t, stubConfigDir(t), serverPort(t, server))
		stubProcess(t, constants.TrayAppExecutable)

		if err := newTestNotifier().Notify(context.Background(), "Weekly export written"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := calls.Load(); got != 3 {
			t.Errorf("expected 3 attempts, got %d", got)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		server, calls := newTrayServer(t, 100)
		writeLockfile(t, stubConfigDir(t), serverPort(t, server))
		stubProcess(t, constants.TrayAppExecutable)

		if err := newTestNotifier().Notify(context.Background(), "Weekly export written"); err == nil {
			t.Fatal("expected error")
		}
		if got := calls.Load(); got != constants.NotifyMaxRetries {
			t.Errorf("expected %d attempts, got %d", constants.NotifyMaxRetries, got)
		}
	})

	t.Run("tray not running", func(t *testing.T) {
		stubConfigDir(t)
		err := newTestNotifier().Notify(context.Background(), "hello")
		if !errors.Is(err, ErrTrayNotRunning) {
			t.Errorf("expected ErrTrayNotRunning, got %v", err)
		}
	})
}
