// Package httpapi is the thin JSON-over-HTTP dispatcher spec.md §6 calls
// for: seven POST routes, permissive CORS, and nothing else — no auth, no
// rate limiting, no file upload. Routing follows dmitrymomot-saaskit's
// chi-based registration style; JSON encode/decode uses sonic in place of
// encoding/json, matching the rest of this module's stack.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/chunking"
	"github.com/inkframe/doccore/internal/docsync"
	"github.com/inkframe/doccore/internal/hierarchy"
	"github.com/inkframe/doccore/internal/logger"
)

// Server holds the core collaborators the handlers dispatch to.
type Server struct {
	Embedder  capability.Embedder
	Agent     capability.Agent
	Sync      *docsync.Manager
	ChunkOpts chunking.Options
	HierOpts  hierarchy.Options
	SyncOpts  docsync.Options
}

// NewRouter builds the chi router exposing the seven /analyze/* routes.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsPermissive)

	r.Post("/analyze/chunk", s.handleChunk)
	r.Post("/analyze/stats", s.handleStats)
	r.Post("/analyze/query", s.handleQuery)
	r.Post("/analyze/hierarchy", s.handleHierarchy)
	r.Post("/analyze/criticize", s.handleCriticize)
	r.Post("/analyze/suggest", s.handleSuggest)
	r.Post("/analyze/summarize", s.handleSummarize)
	return r
}

func corsPermissive(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func decodeJSON(r *http.Request, dest interface{}) error {
	return sonic.ConfigDefault.NewDecoder(r.Body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	data, err := sonic.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var inputErr *apperr.InputError
	if errors.As(err, &inputErr) {
		status = http.StatusBadRequest
	}
	logger.Get().Error("request failed", "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requireText(text string, field string) error {
	if text == "" {
		return apperr.NewInputError(field, errEmptyField(field))
	}
	return nil
}

type errEmptyField string

func (e errEmptyField) Error() string { return string(e) + " must be a non-empty string" }
