package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PeterBarbas/leaply-sub001/internal/config"
	"github.com/PeterBarbas/leaply-sub001/internal/domain"
	"github.com/PeterBarbas/leaply-sub001/internal/usecase/discover"
)

type Discoverer interface {
	Next(ctx context.Context, transcript domain.Transcript) (discover.Result, error)
}

// Server is the HTTP transport for the discovery flow.
type Server struct {
	Discover Discoverer
	Roles    *config.Roles
	Logger   *zap.Logger
}

func (s Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":   true,
			"time": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	mux.HandleFunc("POST /api/discover/next", s.handleDiscoverNext)
	mux.HandleFunc("GET /api/roles", s.handleRoles)

	return s.withRequestLog(mux)
}

func (s Server) handleDiscoverNext(w http.ResponseWriter, r *http.Request) {
	type reqBody struct {
		Transcript domain.Transcript `json:"transcript"`
	}

	log := loggerFrom(r.Context(), s.Logger)

	var body reqBody
	if err := readJSON(w, r, &body); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, map[string]any{"error": err.Error()})
		return
	}

	res, err := s.Discover.Next(r.Context(), body.Transcript)
	if err != nil {
		if errors.Is(err, discover.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		log.Error("discover next failed", zap.Int("turns", len(body.Transcript)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s Server) handleRoles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"roles": s.Roles.Supported})
}

type ctxKey struct{}

func (s Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		log := s.Logger.With(zap.String("request_id", id))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), ctxKey{}, log)))

		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func loggerFrom(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return l
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var errBodyTooLarge = errors.New("request body too large")

const maxBodyBytes = 1_000_000

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r == nil || r.Body == nil {
		return fmt.Errorf("empty request body")
	}
	defer r.Body.Close()

	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return fmt.Errorf("failed reading request body: %v", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		b = []byte("{}")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("invalid json: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	b, err := json.Marshal(v)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"failed to marshal json"}`))
		return
	}
	_, _ = w.Write(append(b, '\n'))
}
