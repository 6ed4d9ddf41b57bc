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

// Package client is a Go client of the vncfleet API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAPI is returned when the API answers with a non-2xx status. Use errors.As with *APIError for details.
	ErrAPI = errors.New("api error")

	errBuildRequest  = errors.New("building request")
	errSendRequest   = errors.New("sending request")
	errDecodeBody    = errors.New("decoding response body")
	errEncodeRequest = errors.New("encoding request body")
)

const DefaultTimeout = 60 * time.Second

// APIError is the error returned by the API.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status=%d requestID=%s: %s", e.StatusCode, e.RequestID, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// Node is a node as returned by the API.
type Node struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	VNCPort        int       `json:"vncPort"`
	OverlayPath    string    `json:"overlayPath"`
	CreatedAt      time.Time `json:"createdAt"`
	ConsoleURL     *string   `json:"consoleUrl"`
	ProcessID      string    `json:"processId,omitempty"`
	ProcessAlive   bool      `json:"processAlive"`
	OverlayMissing bool      `json:"overlayMissing"`
}

// JournalEntry is one sub-step of an operation.
type JournalEntry struct {
	Step    string    `json:"step"`
	Outcome string    `json:"outcome"`
	Error   string    `json:"error,omitempty"`
	Time    time.Time `json:"time"`
}

// Journal lists the sub-steps of one operation.
type Journal struct {
	OperationID uuid.UUID      `json:"operationId"`
	Operation   string         `json:"operation"`
	NodeID      string         `json:"nodeId"`
	StartedAt   time.Time      `json:"startedAt"`
	Entries     []JournalEntry `json:"entries"`
}

// Health is the health of the API.
type Health struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`
}

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Client calls the vncfleet API.
type Client interface {
	Health(ctx context.Context) (Health, error)

	ListNodes(ctx context.Context) ([]Node, error)
	GetNode(ctx context.Context, id string) (Node, error)
	CreateNode(ctx context.Context, name string) (Node, error)
	RunNode(ctx context.Context, id string) (Node, error)
	StopNode(ctx context.Context, id string) (Node, error)
	WipeNode(ctx context.Context, id string) (Node, error)
	DeleteNode(ctx context.Context, id string) error
	Journal(ctx context.Context, id string) ([]Journal, error)
}

// Options configures the Client.
type Options struct {
	// Username and Password are sent as basic auth credentials when Username is set.
	Username string
	Password string
	// HTTPClient defaults to a client with DefaultTimeout.
	HTTPClient *http.Client
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// New returns a Client calling the API at baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts Options) Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		opts:    opts,
	}
}

type client struct {
	baseURL string
	opts    Options
}

func (c *client) Health(ctx context.Context) (Health, error) {
	var out Health
	return out, c.do(ctx, http.MethodGet, "/health", nil, &out)
}

func (c *client) ListNodes(ctx context.Context) ([]Node, error) {
	var out []Node
	return out, c.do(ctx, http.MethodGet, "/nodes", nil, &out)
}

func (c *client) GetNode(ctx context.Context, id string) (Node, error) {
	var out Node
	return out, c.do(ctx, http.MethodGet, nodePath(id), nil, &out)
}

func (c *client) CreateNode(ctx context.Context, name string) (Node, error) {
	var out Node
	return out, c.do(ctx, http.MethodPost, "/nodes", map[string]string{"name": name}, &out)
}

func (c *client) RunNode(ctx context.Context, id string) (Node, error) {
	var out Node
	return out, c.do(ctx, http.MethodPost, nodePath(id)+"/run", nil, &out)
}

func (c *client) StopNode(ctx context.Context, id string) (Node, error) {
	var out Node
	return out, c.do(ctx, http.MethodPost, nodePath(id)+"/stop", nil, &out)
}

func (c *client) WipeNode(ctx context.Context, id string) (Node, error) {
	var out Node
	return out, c.do(ctx, http.MethodPost, nodePath(id)+"/wipe", nil, &out)
}

func (c *client) DeleteNode(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, nodePath(id), nil, nil)
}

func (c *client) Journal(ctx context.Context, id string) ([]Journal, error) {
	var out []Journal
	return out, c.do(ctx, http.MethodGet, nodePath(id)+"/journal", nil, &out)
}

func nodePath(id string) string {
	return "/nodes/" + url.PathEscape(id)
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Join(err, errEncodeRequest)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Join(err, errBuildRequest)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.opts.Username != "" {
		req.SetBasicAuth(c.opts.Username, c.opts.Password)
	}

	resp, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		return errors.Join(err, fmt.Errorf("method=%s path=%s", method, path), errSendRequest)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			RequestID:  resp.Header.Get("X-Request-ID"),
		}

		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		} else {
			apiErr.Message = strings.TrimSpace(string(b))
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(err, errDecodeBody)
	}

	return nil
}
