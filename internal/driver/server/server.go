/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"k8s.io/utils/ptr"

	"github.com/alexandremahdhaoui/vncfleet/internal/controller"
	"github.com/alexandremahdhaoui/vncfleet/internal/types"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/httputil"
)

var (
	ErrDecodeRequestBody = errors.New("decoding request body")
	ErrBuildHandler      = errors.New("building api handler")
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPIDocument returns the OpenAPI document describing the API.
func OpenAPIDocument() []byte {
	return openAPIDocument
}

// CreateNodeRequest is the body of POST /nodes.
type CreateNodeRequest struct {
	Name string `json:"name"`
}

// NodeView is the JSON representation of a node.
type NodeView struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Status         types.NodeStatus `json:"status"`
	VNCPort        int              `json:"vncPort"`
	OverlayPath    string           `json:"overlayPath"`
	CreatedAt      time.Time        `json:"createdAt"`
	ConsoleURL     *string          `json:"consoleUrl"`
	ProcessID      string           `json:"processId,omitempty"`
	ProcessAlive   bool             `json:"processAlive"`
	OverlayMissing bool             `json:"overlayMissing"`
}

// NewNodeView converts a node into its JSON representation. ctx bounds the liveness lookup of its process.
func NewNodeView(ctx context.Context, node types.Node) NodeView {
	view := NodeView{
		ID:             node.ID,
		Name:           node.Name,
		Status:         node.Status,
		VNCPort:        node.VNCPort,
		OverlayPath:    node.OverlayPath,
		CreatedAt:      node.CreatedAt,
		ProcessID:      node.ProcessID(),
		ProcessAlive:   node.Process != nil && node.Process.IsAlive(ctx),
		OverlayMissing: node.OverlayMissing,
	}

	if node.ConsoleURL != "" {
		view.ConsoleURL = ptr.To(node.ConsoleURL)
	}

	return view
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
}

// MessageResponse is the body of DELETE /nodes/{id}.
type MessageResponse struct {
	Message string `json:"message"`
}

// Options configures the api handler.
type Options struct {
	// Username enables HTTP basic authentication when set. PasswordHash, a bcrypt hash, takes precedence over
	// Password.
	Username     string
	Password     string
	PasswordHash string
	// AllowedOrigin is the CORS allowed origin. Defaults to "*".
	AllowedOrigin string
}

// New returns a ServeMux routing the API to the node controller. Middlewares are not applied.
func New(node controller.Node) *http.ServeMux {
	s := &server{node: node}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /openapi.yaml", s.openAPI)

	mux.HandleFunc("GET /nodes", s.listNodes)
	mux.HandleFunc("POST /nodes", s.createNode)
	mux.HandleFunc("GET /nodes/{id}", s.getNode)
	mux.HandleFunc("DELETE /nodes/{id}", s.deleteNode)
	mux.HandleFunc("GET /nodes/{id}/journal", s.getJournal)
	mux.HandleFunc("POST /nodes/{id}/run", s.runNode)
	mux.HandleFunc("POST /nodes/{id}/stop", s.stopNode)
	mux.HandleFunc("POST /nodes/{id}/wipe", s.wipeNode)

	return mux
}

// NewHandler returns the API wrapped into its middlewares: CORS, request ID, client IP, optional basic auth and
// OpenAPI request validation, in that order.
func NewHandler(node controller.Node, opts Options) (http.Handler, error) {
	validator, err := OpenAPIValidator(openAPIDocument)
	if err != nil {
		return nil, errors.Join(err, ErrBuildHandler)
	}

	var handler http.Handler = validator(New(node))

	switch {
	case opts.Username != "" && opts.PasswordHash != "":
		handler = httputil.BasicAuth(handler, httputil.BcryptCredentials(opts.Username, []byte(opts.PasswordHash)))
	case opts.Username != "":
		handler = httputil.BasicAuth(handler, httputil.StaticCredentials(opts.Username, opts.Password))
	}

	handler = ClientIPMiddleware(handler)
	handler = RequestIDMiddleware(handler)
	handler = CORSMiddleware(opts.AllowedOrigin)(handler)

	return handler, nil
}

type server struct {
	node controller.Node
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Nodes:  s.node.Count(r.Context()),
	})
}

func (s *server) openAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPIDocument)
}

func (s *server) listNodes(w http.ResponseWriter, r *http.Request) {
	nodes := s.node.List(r.Context())

	views := make([]NodeView, 0, len(nodes))
	for _, node := range nodes {
		views = append(views, NewNodeView(r.Context(), node))
	}

	httputil.WriteJSON(w, http.StatusOK, views)
}

func (s *server) createNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.Join(err, ErrDecodeRequestBody, controller.ErrValidation))
		return
	}

	node, err := s.node.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, NewNodeView(r.Context(), node))
}

func (s *server) getNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.node.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewNodeView(r.Context(), node))
}

func (s *server) getJournal(w http.ResponseWriter, r *http.Request) {
	journals, err := s.node.Journal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if journals == nil {
		journals = []types.Journal{}
	}

	httputil.WriteJSON(w, http.StatusOK, journals)
}

func (s *server) runNode(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.node.Run)
}

func (s *server) stopNode(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.node.Stop)
}

func (s *server) wipeNode(w http.ResponseWriter, r *http.Request) {
	s.transition(w, r, s.node.Wipe)
}

func (s *server) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id string) (types.Node, error),
) {
	node, err := op(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, NewNodeView(r.Context(), node))
}

func (s *server) deleteNode(w http.ResponseWriter, r *http.Request) {
	if err := s.node.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "Node deleted successfully"})
}

// StatusCode maps a controller error to an HTTP status code.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, controller.ErrNodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, controller.ErrValidation), errors.Is(err, controller.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}

	slog.Log(r.Context(), level, "request_failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"request_id", RequestID(r.Context()),
		"client_ip", GetClientIP(r.Context()),
		"error", err.Error(),
	)

	httputil.WriteError(w, status, err)
}
