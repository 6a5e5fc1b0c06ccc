package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/guestlist/internal/api"
	"github.com/mcoot/guestlist/internal/api/middleware"
	"github.com/mcoot/guestlist/internal/config"
	"github.com/mcoot/guestlist/internal/factory"
	"github.com/mcoot/guestlist/internal/testutil"
)

const adminToken = "e2e-admin"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "guestctl")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/guestctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "GUESTCTL_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runAdmin(args ...string) (string, error) {
	return r.run(append([]string{"--token", adminToken}, args...)...)
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server over file storage
type testServer struct {
	url      string
	shutdown func()
}

func startTestServer(t *testing.T, dbPath string) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	hash, err := middleware.HashToken(adminToken, bcrypt.MinCost)
	require.NoError(t, err)

	logger := testutil.NopLogger()
	app, err := factory.New(context.Background(), factory.Config{
		Storage: config.StorageConfig{Type: config.StorageFile, Path: dbPath},
		Logger:  logger,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Registry:       app.Registry,
		Blacklist:      app.Blacklist,
		Event:          app.Event,
		Policy:         app.Policy,
		AdminTokenHash: hash,
	})

	server := api.NewServer(router, config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            port,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}, logger)

	// Start server
	go func() {
		if err := server.Start(); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + server.Addr()
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		url: serverURL,
		shutdown: func() {
			_ = server.Shutdown(context.Background())
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("server at %s did not become ready", url)
}

func decodeJSON[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), output)
	return v
}

func TestCLIEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "db.json")
	srv := startTestServer(t, dbPath)
	cli := newCLIRunner(t, srv.url)

	out, err := cli.run("health")
	require.NoError(t, err, out)
	assert.Equal(t, "ok", decodeJSON[map[string]string](t, out)["status"])

	out, err = cli.runAdmin("slots", "set", "2")
	require.NoError(t, err, out)

	// Fill the list
	for _, id := range []string{"1", "2"} {
		out, err = cli.run("guest", "register", id, "Guest "+id)
		require.NoError(t, err, out)
		assert.Equal(t, "success", decodeJSON[map[string]any](t, out)["outcome"])
	}

	out, err = cli.run("guest", "register", "3", "Late")
	require.NoError(t, err, out)
	assert.Equal(t, "full", decodeJSON[map[string]any](t, out)["outcome"])

	// Self-cancel frees a slot
	out, err = cli.run("guest", "cancel", "2")
	require.NoError(t, err, out)
	assert.Equal(t, true, decodeJSON[map[string]any](t, out)["removed"])

	out, err = cli.run("slots", "get")
	require.NoError(t, err, out)
	assert.EqualValues(t, 1, decodeJSON[map[string]any](t, out)["free"])

	// Admin routes refuse a missing token
	out, err = cli.run("guest", "list")
	require.Error(t, err)
	assert.Contains(t, out, "UNAUTHORIZED")

	out, err = cli.runAdmin("blacklist", "add", "3")
	require.NoError(t, err, out)

	out, err = cli.run("guest", "register", "3", "Late")
	require.NoError(t, err, out)
	assert.Equal(t, "blacklisted", decodeJSON[map[string]any](t, out)["outcome"])

	srv.shutdown()

	// The document survives a restart
	data, err := os.ReadFile(dbPath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 2, doc["max_slots"])
	assert.Equal(t, []any{float64(3)}, doc["blacklist"])

	srv = startTestServer(t, dbPath)
	defer srv.shutdown()
	cli = &cliRunner{binaryPath: cli.binaryPath, serverURL: srv.url}

	out, err = cli.runAdmin("guest", "list")
	require.NoError(t, err, out)
	list := decodeJSON[map[string][]map[string]any](t, out)
	require.Len(t, list["guests"], 1)
	assert.Equal(t, "Guest 1", list["guests"][0]["name"])
}
