// Package status serves a small read-only HTTP view of the channel host.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ozonewl/dhost/internal/host"
	"github.com/ozonewl/dhost/internal/process"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// HostStatus is the subset of *host.Host the handler reads.
type HostStatus interface {
	Status() host.Status
}

// WorkerStatus is the subset of *process.Supervisor the handler reads.
type WorkerStatus interface {
	Current() (process.Info, bool)
}

type Worker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	PID  int    `json:"pid"`
}

type Response struct {
	State        string  `json:"state"`
	Pending      int     `json:"pending"`
	Acquisitions int64   `json:"acquisitions"`
	Worker       *Worker `json:"worker"`
}

// NewHandler builds the router. workers may be nil.
func NewHandler(h HostStatus, workers WorkerStatus) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		sendJSON(w, http.StatusOK, snapshot(h, workers))
	})

	return otelhttp.NewHandler(r, "dhost.status")
}

func snapshot(h HostStatus, workers WorkerStatus) Response {
	st := h.Status()
	resp := Response{
		State:        st.State.String(),
		Pending:      st.Pending,
		Acquisitions: st.Acquisitions,
	}
	if workers != nil {
		if info, ok := workers.Current(); ok {
			resp.Worker = &Worker{
				ID:   info.ID.String(),
				Name: info.Name,
				Type: string(info.Type),
				PID:  info.PID,
			}
		}
	}
	return resp
}

func sendJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return serve(ctx, lis, handler, logger)
}

func serve(ctx context.Context, lis net.Listener, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("status endpoint listening", zap.String("addr", lis.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
