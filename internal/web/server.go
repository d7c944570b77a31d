package web

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hpungsan/imprint/internal/settings"
)

// NewServer creates and configures the HTTP server for the imprint API.
func NewServer(db *sql.DB, store *settings.Store, cache *settings.Cache, log logrus.FieldLogger, bind string, port int) *http.Server {
	h := &Handlers{
		db:    db,
		store: store,
		cache: cache,
		log:   log,
	}

	mux := http.NewServeMux()

	// Message protocol (the capture side's only entry point)
	mux.HandleFunc("POST /api/message", h.HandleMessage)

	// Review API
	mux.HandleFunc("GET /api/records", h.HandleListRecords)
	mux.HandleFunc("DELETE /api/records/{id}", h.HandleDeleteRecord)
	mux.HandleFunc("POST /api/records/{id}/star", h.HandleToggleStar)
	mux.HandleFunc("POST /api/records/{id}/tags", h.HandleAddRecordTag)
	mux.HandleFunc("DELETE /api/records/{id}/tags/{name}", h.HandleRemoveRecordTag)
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("GET /api/tags", h.HandleListTags)
	mux.HandleFunc("POST /api/tags", h.HandleCreateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", h.HandleDeleteTag)
	mux.HandleFunc("GET /api/settings", h.HandleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.HandleSaveSettings)
	mux.HandleFunc("GET /api/export", h.HandleExport)
	mux.HandleFunc("POST /api/clear", h.HandleClear)
	mux.HandleFunc("POST /api/purge", h.HandlePurge)
	mux.HandleFunc("POST /api/sweep", h.HandleSweep)

	return &http.Server{
		Addr:    fmt.Sprintf("%s:%d", bind, port),
		Handler: securityHeaders(mux),
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log logrus.FieldLogger) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.WithField("addr", srv.Addr).Info("imprint API listening")

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
