package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/browser"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/watch"
	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/web"
	"github.com/cardinalphin/fire-and-forget-notes/internal/logger"
)

var (
	serveHost    string
	servePort    int
	serveMCPPort int
	serveNoWatch bool
	serveOpen    bool
)

// portSearchRange is how far past a busy default port serve looks.
const portSearchRange = 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Long: `Run the web UI for writing, browsing and searching notes.

While serving, the notes folder is watched and the index is rebuilt when
notes change outside fireforget. Pass --mcp-port to also serve MCP over
HTTP from the same process.

When the configured port is busy and --port is not given, the next free
port is used instead.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default from config)")
	serveCmd.Flags().IntVar(&serveMCPPort, "mcp-port", 0, "also serve MCP over HTTP on this port")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "do not watch the notes folder")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the web UI in the browser once it is up")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if noteService == nil || searchService == nil {
		return fmt.Errorf("note services not configured")
	}

	host, port := appConfig.Host, appConfig.Port
	if cmd.Flags().Changed("host") {
		host = serveHost
	}
	if cmd.Flags().Changed("port") {
		port = servePort
	} else if free, err := browser.FindAvailablePort(host, port, port+portSearchRange); err == nil && free != port {
		logger.Warn("Port %d is busy, using %d", port, free)
		port = free
	}

	server, err := web.New(&web.Ports{
		Notes:   noteService,
		Search:  searchService,
		Tasks:   taskService,
		Copilot: copilotService,
	}, web.WithMetrics(collector), web.WithUploadsDir(appConfig.UploadsDir))
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	ctx := cmd.Context()
	if indexService != nil {
		if _, err := indexService.Current(ctx); err != nil {
			logger.Warn("Index not ready, searches will retry: %v", err)
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
	g.Go(func() error {
		return server.Run(ctx, addr)
	})

	if serveOpen {
		g.Go(func() error {
			openWhenReady(ctx, host, port)
			return nil
		})
	}

	if appConfig.WatchNotes && !serveNoWatch && indexService != nil {
		w := watch.New(appConfig.NotesDir, indexService)
		g.Go(func() error {
			return w.Run(ctx)
		})
	}

	if serveMCPPort > 0 {
		mcpServer, err := newMCPServer()
		if err != nil {
			return err
		}
		mcpAddr := net.JoinHostPort(host, strconv.Itoa(serveMCPPort))
		fmt.Fprintf(cmd.OutOrStdout(), "MCP on http://%s\n", mcpAddr)
		g.Go(func() error {
			return mcpServer.RunHTTP(ctx, mcpAddr)
		})
	}

	return g.Wait()
}

// openWhenReady waits for the health check to answer, then opens the
// browser. Failures are logged and never stop the server.
func openWhenReady(ctx context.Context, host string, port int) {
	home, err := browser.URL(host, port, "")
	if err != nil {
		logger.Warn("Cannot open browser: %v", err)
		return
	}
	health := home + "healthz"

	client := &http.Client{Timeout: time.Second}
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(10 * time.Second)

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, health, nil)
		if err == nil {
			if resp, err := client.Do(req); err == nil {
				_ = resp.Body.Close()
				if resp.StatusCode == http.StatusOK {
					if err := openBrowser(home); err != nil {
						logger.Warn("Cannot open browser: %v", err)
					}
					return
				}
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-deadline:
			logger.Warn("Web UI did not come up, not opening the browser")
			return
		case <-ticker.C:
		}
	}
}
