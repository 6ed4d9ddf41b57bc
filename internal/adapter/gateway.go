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

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrGatewayDisabled   = errors.New("gateway is disabled")
	ErrGatewayAuth       = errors.New("authenticating with gateway")
	ErrGatewayRegister   = errors.New("registering connection with gateway")
	ErrGatewayDeregister = errors.New("deregistering connection from gateway")

	errUnexpectedStatusCode = errors.New("unexpected status code")
	errEmptyAuthToken       = errors.New("gateway returned an empty auth token")
	errEmptyIdentifier      = errors.New("gateway returned an empty connection identifier")
)

const (
	DefaultGatewayDataSource       = "postgresql"
	DefaultGatewayParentIdentifier = "ROOT"
	DefaultGatewayVNCHostname      = "host.docker.internal"
	DefaultGatewayRequestTimeout   = 5 * time.Second

	tokenParam = "token"
)

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// Gateway registers VNC endpoints with the remote-desktop gateway.
//
// Callers must treat every error as "console unavailable": a failing gateway never blocks a lifecycle transition.
type Gateway interface {
	// Register creates a VNC connection for the node and returns its identifier.
	Register(ctx context.Context, nodeID, nodeName string, vncPort int) (string, error)
	// Deregister deletes the connection. An empty connectionID is a no-op.
	Deregister(ctx context.Context, connectionID string) error
	// ConsoleURL returns the browsable console URL of the connection.
	ConsoleURL(connectionID string) string
}

// GatewayConfig configures the Guacamole gateway client.
type GatewayConfig struct {
	// URL is the base URL of the gateway, e.g. "http://localhost:8080/guacamole".
	URL string
	// Username and Password are the administrative credentials.
	Username string
	Password string
	// DataSource is the auth provider backing connections, e.g. "postgresql".
	DataSource string
	// ParentIdentifier is the connection group holding node connections.
	ParentIdentifier string
	// VNCHostname is the hostname the gateway uses to reach the hypervisors.
	VNCHostname string
	// RequestTimeout bounds every HTTP request sent to the gateway.
	RequestTimeout time.Duration
	// EmbedCredentialsInConsoleURL appends the administrative credentials to console URLs.
	// This exposes them to whoever sees the URL.
	EmbedCredentialsInConsoleURL bool
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewGateway returns a Gateway talking to Apache Guacamole's REST API.
// If httpClient is nil, a client bounded by cfg.RequestTimeout is used.
func NewGateway(cfg GatewayConfig, httpClient *http.Client) Gateway {
	if cfg.DataSource == "" {
		cfg.DataSource = DefaultGatewayDataSource
	}

	if cfg.ParentIdentifier == "" {
		cfg.ParentIdentifier = DefaultGatewayParentIdentifier
	}

	if cfg.VNCHostname == "" {
		cfg.VNCHostname = DefaultGatewayVNCHostname
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultGatewayRequestTimeout
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout} //nolint:exhaustruct
	}

	cfg.URL = strings.TrimSuffix(cfg.URL, "/")

	return &guacamole{
		cfg:    cfg,
		client: httpClient,
	}
}

// NewNoopGateway returns a Gateway for deployments without a gateway. Register always fails with
// ErrGatewayDisabled, leaving nodes running without a console.
func NewNoopGateway() Gateway {
	return noopGateway{}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type guacamole struct {
	cfg    GatewayConfig
	client *http.Client
}

type guacamoleToken struct {
	AuthToken  string `json:"authToken"`
	DataSource string `json:"dataSource"`
}

type guacamoleConnection struct {
	Identifier       string            `json:"identifier,omitempty"`
	Name             string            `json:"name"`
	Protocol         string            `json:"protocol"`
	ParentIdentifier string            `json:"parentIdentifier"`
	Parameters       map[string]string `json:"parameters"`
	Attributes       map[string]string `json:"attributes"`
}

// --------------------------------------------- authenticate ------------------------------------------------------- //

func (g *guacamole) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", g.cfg.Username)
	form.Set("password", g.cfg.Password)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.cfg.URL+"/api/tokens",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", errors.Join(err, ErrGatewayAuth)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	token := new(guacamoleToken)
	if err := g.do(req, http.StatusOK, token); err != nil {
		return "", errors.Join(err, ErrGatewayAuth)
	}

	if token.AuthToken == "" {
		return "", errors.Join(errEmptyAuthToken, ErrGatewayAuth)
	}

	return token.AuthToken, nil
}

// --------------------------------------------- Register ----------------------------------------------------------- //

func (g *guacamole) Register(ctx context.Context, nodeID, nodeName string, vncPort int) (string, error) {
	token, err := g.authenticate(ctx)
	if err != nil {
		return "", errors.Join(err, ErrGatewayRegister)
	}

	b, err := json.Marshal(guacamoleConnection{
		Name:             nodeName,
		Protocol:         "vnc",
		ParentIdentifier: g.cfg.ParentIdentifier,
		Parameters: map[string]string{
			"hostname": g.cfg.VNCHostname,
			"port":     strconv.Itoa(vncPort),
			"password": "",
		},
		Attributes: map[string]string{
			"max-connections":          "",
			"max-connections-per-user": "",
		},
	})
	if err != nil {
		return "", errors.Join(err, ErrGatewayRegister)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		g.connectionsURL("", token),
		bytes.NewReader(b),
	)
	if err != nil {
		return "", errors.Join(err, ErrGatewayRegister)
	}

	req.Header.Set("Content-Type", "application/json")

	out := new(guacamoleConnection)
	if err := g.do(req, http.StatusOK, out); err != nil {
		return "", errors.Join(err, fmt.Errorf("nodeID=%s", nodeID), ErrGatewayRegister)
	}

	if out.Identifier == "" {
		return "", errors.Join(errEmptyIdentifier, fmt.Errorf("nodeID=%s", nodeID), ErrGatewayRegister)
	}

	return out.Identifier, nil
}

// --------------------------------------------- Deregister --------------------------------------------------------- //

func (g *guacamole) Deregister(ctx context.Context, connectionID string) error {
	if connectionID == "" {
		return nil
	}

	token, err := g.authenticate(ctx)
	if err != nil {
		return errors.Join(err, ErrGatewayDeregister)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		g.connectionsURL(connectionID, token),
		nil,
	)
	if err != nil {
		return errors.Join(err, ErrGatewayDeregister)
	}

	if err := g.do(req, http.StatusNoContent, nil); err != nil {
		return errors.Join(err, fmt.Errorf("connectionID=%s", connectionID), ErrGatewayDeregister)
	}

	return nil
}

// --------------------------------------------- ConsoleURL --------------------------------------------------------- //

func (g *guacamole) ConsoleURL(connectionID string) string {
	if connectionID == "" {
		return ""
	}

	out := fmt.Sprintf("%s/#/client/%s", g.cfg.URL, url.PathEscape(connectionID))
	if !g.cfg.EmbedCredentialsInConsoleURL {
		return out
	}

	q := url.Values{}
	q.Set("username", g.cfg.Username)
	q.Set("password", g.cfg.Password)

	return fmt.Sprintf("%s?%s", out, q.Encode())
}

// --------------------------------------------- UTILS -------------------------------------------------------------- //

func (g *guacamole) connectionsURL(connectionID, token string) string {
	u := fmt.Sprintf("%s/api/session/data/%s/connections", g.cfg.URL, url.PathEscape(g.cfg.DataSource))
	if connectionID != "" {
		u = fmt.Sprintf("%s/%s", u, url.PathEscape(connectionID))
	}

	return fmt.Sprintf("%s?%s=%s", u, tokenParam, url.QueryEscape(token))
}

// do sends req and decodes the JSON response into out when out is not nil.
// Any 2xx status is accepted; expected is only used in error messages.
func (g *guacamole) do(req *http.Request, expected int, out any) error {
	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Join(
			fmt.Errorf("expected: %d; actual: %d; body: %s", expected, resp.StatusCode, body),
			errUnexpectedStatusCode,
		)
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(body, out)
}

// ------------------------------------------------- NOOP GATEWAY --------------------------------------------------- //

type noopGateway struct{}

func (noopGateway) Register(context.Context, string, string, int) (string, error) {
	return "", ErrGatewayDisabled
}

func (noopGateway) Deregister(context.Context, string) error { return nil }

func (noopGateway) ConsoleURL(string) string { return "" }
