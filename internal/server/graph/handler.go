// Package graph is the QueryLayer boundary: it exposes the declared schema,
// a playground page, and a mutation endpoint with explicitly registered
// resolvers instead of a schema-driven execution engine.
package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/dkarpov/shopgraph/internal/logging"
	"github.com/dkarpov/shopgraph/internal/server/auth"
	"github.com/dkarpov/shopgraph/internal/server/metrics"
	"github.com/gorilla/mux"
)

// Variables carries a mutation's arguments as decoded from the request.
type Variables map[string]any

// String returns the named variable if it is a string, or "".
func (v Variables) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// MutationFunc resolves one named mutation. The returned value becomes the
// mutation's entry under "data".
type MutationFunc func(ctx context.Context, vars Variables) (any, error)

// Request is the JSON envelope accepted on POST /query. The mutation to run
// is the first field name inside the query text; operationName is accepted
// as a fallback for clients that send only a name.
type Request struct {
	Query         string    `json:"query"`
	OperationName string    `json:"operationName"`
	Variables     Variables `json:"variables"`
}

// Response is the GraphQL-style result payload.
type Response struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []ErrorEntry   `json:"errors,omitempty"`
}

// mutationNameRe extracts the first field name after the opening brace of
// the operation body.
var mutationNameRe = regexp.MustCompile(`(?s)\{\s*([A-Za-z_][A-Za-z0-9_]*)`)

// Handler routes the graph endpoint. Mutations are registered by name; a
// request naming anything else fails with UNKNOWN_MUTATION.
type Handler struct {
	logger    logging.Logger
	issuer    *auth.TokenIssuer
	metrics   *metrics.Metrics
	timeout   time.Duration
	resolvers map[string]MutationFunc
	router    *mux.Router
}

func NewHandler(l logging.Logger, issuer *auth.TokenIssuer, m *metrics.Metrics, timeout time.Duration) *Handler {
	h := &Handler{
		logger:    l.With("module", "graph"),
		issuer:    issuer,
		metrics:   m,
		timeout:   timeout,
		resolvers: make(map[string]MutationFunc),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", h.servePlayground).Methods(http.MethodGet)
	r.HandleFunc("/schema", h.serveSchema).Methods(http.MethodGet)
	r.Handle("/query", h.withTimeout(h.withBearerToken(http.HandlerFunc(h.serveQuery)))).Methods(http.MethodPost)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.serveHealth).Methods(http.MethodGet)
	h.router = r

	return h
}

// RegisterMutation binds a resolver to a mutation name. Registration happens
// during wiring, before the server accepts traffic.
func (h *Handler) RegisterMutation(name string, fn MutationFunc) {
	h.resolvers[name] = fn
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) serveQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeResponse(w, http.StatusBadRequest, Response{
			Errors: []ErrorEntry{{Message: "malformed request body", Extensions: ErrorExtensions{Code: CodeInvalidRequest}}},
		})
		return
	}

	name := h.mutationName(&req)
	if name == "" {
		h.writeResponse(w, http.StatusBadRequest, Response{
			Errors: []ErrorEntry{{Message: "no mutation specified", Extensions: ErrorExtensions{Code: CodeInvalidRequest}}},
		})
		return
	}

	resolver, ok := h.resolvers[name]
	if !ok {
		h.writeResponse(w, http.StatusBadRequest, Response{
			Errors: []ErrorEntry{{Message: "unknown mutation " + name, Extensions: ErrorExtensions{Code: CodeUnknownMutation}}},
		})
		return
	}

	start := time.Now()
	result, err := resolver(ctx, req.Variables)
	elapsed := time.Since(start)

	if err != nil {
		entry := toErrorEntry(err)
		h.metrics.ObserveMutation(name, "error", elapsed)
		h.logger.Warn(ctx, "mutation failed", "mutation", name, "code", entry.Extensions.Code)
		h.writeResponse(w, http.StatusOK, Response{Errors: []ErrorEntry{entry}})
		return
	}

	h.metrics.ObserveMutation(name, "ok", elapsed)
	h.writeResponse(w, http.StatusOK, Response{Data: map[string]any{name: result}})
}

// mutationName resolves which registered mutation the request addresses.
func (h *Handler) mutationName(req *Request) string {
	if m := mutationNameRe.FindStringSubmatch(req.Query); m != nil {
		return m[1]
	}
	return req.OperationName
}

func (h *Handler) serveSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(TypeDefs))
}

func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"OK"}`))
}

func (h *Handler) writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error(context.Background(), "error writing response", "error", err.Error())
	}
}
