package router

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"cycle-metrics/internal/domain"
	"cycle-metrics/internal/endpoints"
	"cycle-metrics/internal/util"
)

func NewRouter(store domain.RunStore, webSlogger *util.MetricsLogger) *mux.Router {
	r := mux.NewRouter()

	addRoutes(r, store, webSlogger)

	r.Use(loggingMiddleware(webSlogger))

	return r
}

func addRoutes(r *mux.Router, store domain.RunStore, webSlogger *util.MetricsLogger) {

	runsHandler := &endpoints.Runs{}
	runsHandler.Init(store, webSlogger)

	// registered first so "latest" is not read as a limit
	r.HandleFunc("/runs/latest", runsHandler.GetLatestRunHandler).Methods(http.MethodGet)
	r.HandleFunc("/runs/{limit}/{offset}", runsHandler.GetRunsHandler).Methods(http.MethodGet)
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func Run(addr string, store domain.RunStore, webSlogger *util.MetricsLogger) error {
	server := NewServer(addr, NewRouter(store, webSlogger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		webSlogger.LogEvent(util.LOG_LEVEL_INFO, "Listening on", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	webSlogger.LogEvent(util.LOG_LEVEL_INFO, "Shutting down server...")
	if err := gracefulShutdown(server, 25*time.Second); err != nil {
		webSlogger.LogEvent(util.LOG_LEVEL_ERROR, "Server stopped with error:", err)
		return err
	}
	webSlogger.LogEvent(util.LOG_LEVEL_INFO, "Server stopped gracefully.")
	return nil
}

func gracefulShutdown(server *http.Server, maximumTime time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), maximumTime)
	defer cancel()

	return server.Shutdown(ctx)
}

func loggingMiddleware(logger *util.MetricsLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.LogEvent(util.LOG_LEVEL_INFO, "Request:", r.Method, r.RequestURI)
			next.ServeHTTP(w, r)
		})
	}
}
