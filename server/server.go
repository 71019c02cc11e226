package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/PublishedDoonk/notes-so/routes"
)

// New creates an http server exposing searcher on port.
func New(port int, searcher routes.Searcher, logger *slog.Logger) *http.Server {
	// Create a new serveMux
	mux := http.NewServeMux()

	// Connect the routes.
	routes.SetupRoutes(mux, searcher)

	// Create a new http server to customize the timeouts.
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           routes.Logger(logger)(mux),
		ReadTimeout:       time.Second * 10,
		WriteTimeout:      time.Second * 10,
		ReadHeaderTimeout: time.Second * 5,
	}
}

// Run serves searcher until the process receives os.Interrupt.
func Run(port int, searcher routes.Searcher, logger *slog.Logger) error {
	server := New(port, searcher, logger)

	errc := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Listening on http://0.0.0.0:%d", port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("server terminated with error: %w", err)
			return
		}
		errc <- nil
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	if err := GracefulShutdown(server, logger); err != nil {
		return err
	}
	return <-errc
}

// Gracefully shuts down the server. The default timeout is 10 seconds
// To wait for pending connections.
func GracefulShutdown(server *http.Server, logger *slog.Logger, timeout ...time.Duration) error {
	var t time.Duration
	if len(timeout) > 0 {
		t = timeout[0]
	} else {
		t = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), t)
	defer cancel()

	logger.Info("Shutting down the server")
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("shutting down gracefully")
	return nil
}
