package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amterp/elysian/internal/api"
	"github.com/amterp/ra"
)

const shutdownTimeout = 5 * time.Second

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the web API")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (default: port from config; will try incrementally if in use)").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func runServe(port int, g GlobalOptions) {
	app := mustApp(g)

	if port == 0 {
		port = app.GlobalConfig.GetPort()
	}

	sessions := api.NewSessionRegistry(
		app.DeckService,
		app.GlobalConfig.GetDailyGoal(),
		app.GlobalConfig.GetTimerSeconds(),
	)

	// Find an available port starting from the requested one
	actualPort := findAvailablePort(port)

	server := api.NewServer(app.DeckService, sessions, app.DeckStore.Path(), actualPort)

	fmt.Printf("Elysian API running at %s\n", RenderURL(fmt.Sprintf("http://localhost:%d/api/v1", actualPort)))
	fmt.Printf("Deck file: %s\n", RenderMuted(app.DeckStore.Path()))
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			Fatal(err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			Fatal(fmt.Errorf("shutdown failed: %w", err))
		}
		fmt.Println()
		PrintInfo("Server stopped")
	}
}

// findAvailablePort tries ports starting from startPort until it finds one that's available.
func findAvailablePort(startPort int) int {
	maxAttempts := 100
	for i := 0; i < maxAttempts; i++ {
		port := startPort + i
		if isPortAvailable(port) {
			return port
		}
	}
	// If we couldn't find a port after maxAttempts, return the original and let it fail naturally
	return startPort
}

// isPortAvailable checks if a port is available by attempting to listen on it.
func isPortAvailable(port int) bool {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}
