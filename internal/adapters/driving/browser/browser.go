// Package browser opens web UI pages in the desktop browser and picks a
// free local port for the server.
package browser

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Pages maps short page names to web UI paths.
var Pages = map[string]string{
	"home":    "/",
	"new":     "/new",
	"browse":  "/browse",
	"search":  "/search",
	"tasks":   "/tasks",
	"copilot": "/copilot",
}

// PageNames returns the known page names in lexical order.
func PageNames() []string {
	names := make([]string, 0, len(Pages))
	for name := range Pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// URL returns the address of page on the server at host:port.
func URL(host string, port int, page string) (string, error) {
	path, ok := Pages[strings.ToLower(strings.TrimSpace(page))]
	if page == "" {
		path, ok = Pages["home"], true
	}
	if !ok {
		return "", fmt.Errorf("unknown page %q (choose one of %s)", page, strings.Join(PageNames(), ", "))
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + path, nil
}

// Open opens url in the default browser without waiting for it.
func Open(url string) error {
	cmd, err := command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// FindAvailablePort returns the first port in [startPort, endPort] that
// can be bound on host.
func FindAvailablePort(host string, startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err == nil {
			_ = listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}
