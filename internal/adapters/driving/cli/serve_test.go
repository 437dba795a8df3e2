package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestServeCmd_Flags(t *testing.T) {
	for _, name := range []string{"host", "port", "mcp-port", "no-watch", "open"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "p", serveCmd.Flags().Lookup("port").Shorthand)
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("serve", "extra")
	assert.Error(t, err)
}

func TestServeCmd_MissingServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	noteService = nil

	err := runServe(serveCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestServeCmd_ServesUntilCancelled(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	serveCmd.SetContext(ctx)
	defer serveCmd.SetContext(context.Background())

	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := executeCommand("serve", "--host", "127.0.0.1", "--port", strconv.Itoa(port), "--no-watch")
		done <- result{out, err}
	}()

	url := "http://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(port)) + "/healthz"
	var body string
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		body = string(data)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, "ok\n", body)

	cancel()
	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Contains(t, r.out, "Serving on http://127.0.0.1:"+strconv.Itoa(port))
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeCmd_OpensBrowserWhenReady(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	opened := make(chan string, 1)
	old := openBrowser
	openBrowser = func(url string) error {
		opened <- url
		return nil
	}
	defer func() { openBrowser = old }()

	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	serveCmd.SetContext(ctx)
	defer serveCmd.SetContext(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := executeCommand("serve", "--host", "127.0.0.1", "--port", strconv.Itoa(port), "--no-watch", "--open")
		done <- err
	}()

	select {
	case url := <-opened:
		assert.Equal(t, "http://127.0.0.1:"+strconv.Itoa(port)+"/", url)
	case <-time.After(10 * time.Second):
		t.Fatal("browser was not opened")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}
