package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	webview "github.com/webview/webview_go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kartoza/profit-predictor/internal/scheduler"
	"github.com/kartoza/profit-predictor/internal/server"
)

var (
	servePort      int
	serveModelPath string
	serveHeadless  bool
)

// serveCmd runs the web server and, unless headless, the desktop window
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction service and web form",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP server port")
	serveCmd.Flags().StringVar(&serveModelPath, "model", "", "Path to a trained model file")
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", false, "Run in headless mode (no GUI window)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if serveModelPath != "" {
		cfg.ModelPath = serveModelPath
	}
	cfg.ModelPath = resolveModelPath(cfg.ModelPath, log)

	// Find an available port (try up to 10 ports starting from the requested one)
	availablePort, err := findAvailablePort(cfg.Port, 10)
	if err != nil {
		return fmt.Errorf("failed to find available port: %w", err)
	}
	if availablePort != cfg.Port {
		log.Info("Port in use, using another", zap.Int("requested", cfg.Port), zap.Int("port", availablePort))
		cfg.Port = availablePort
	}

	log.Info("Profit Predictor starting",
		zap.String("version", version),
		zap.Int("port", cfg.Port),
		zap.String("data_dir", cfg.DataDir),
	)

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, *cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	sched := scheduler.New(srv.Recorder(), cfg.History.Retention, log)
	if cfg.History.Path != "" {
		if err := sched.Register(ctx, cfg.History.PruneSchedule); err != nil {
			log.Warn("history pruning disabled", zap.Error(err))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		log.Info("Shutting down")
		sched.Stop()
		return srv.Stop()
	})

	// Wait for server to be ready
	serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	waitForServer(serverURL, 10*time.Second, log)

	if !serveHeadless {
		openWindow(gctx, serverURL, log)
		// The window closing ends the process like a signal would
		stop()
	}

	return g.Wait()
}

// openWindow shows the page in an embedded WebView and blocks until the
// window is closed or ctx ends.
func openWindow(ctx context.Context, url string, log *zap.Logger) {
	log.Info("Opening application window")
	w := webview.New(false)
	defer w.Destroy()

	w.SetTitle("Profit Predictor")
	w.SetSize(1024, 800, webview.HintNone)
	w.Navigate(url)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			w.Terminate()
		case <-done:
		}
	}()

	// Run blocks until the window is closed
	w.Run()
	log.Info("Window closed")
}

// waitForServer polls until the server is accepting connections
func waitForServer(url string, timeout time.Duration, log *zap.Logger) {
	addr := url[len("http://"):]
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	log.Warn("server may not be ready", zap.String("url", url))
}

// findAvailablePort finds an available port, starting from the given port.
// If the port is in use, it tries subsequent ports up to maxAttempts times.
func findAvailablePort(startPort int, maxAttempts int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		addr := fmt.Sprintf(":%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port found after %d attempts starting from %d", maxAttempts, startPort)
}
