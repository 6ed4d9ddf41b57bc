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

// Package guacamolefake provides an in-memory Apache Guacamole REST API for tests.
package guacamolefake

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	Username  = "guacadmin"
	Password  = "guacadmin"
	AuthToken = "fake-token"
)

type Connection struct {
	Identifier       string            `json:"identifier,omitempty"`
	Name             string            `json:"name"`
	Protocol         string            `json:"protocol"`
	ParentIdentifier string            `json:"parentIdentifier"`
	Parameters       map[string]string `json:"parameters"`
	Attributes       map[string]string `json:"attributes"`
}

type Fake struct {
	t  *testing.T
	mu sync.Mutex

	counter     int
	connections map[string]Connection

	// FailTokens makes POST /api/tokens answer 403.
	FailTokens bool
	// FailCreate makes connection creation answer 500.
	FailCreate bool
	// FailDelete makes connection deletion answer 500.
	FailDelete bool

	Server *httptest.Server
}

// URL returns the base URL of the fake, e.g. "http://127.0.0.1:41234/guacamole".
func (f *Fake) URL() string {
	return f.Server.URL + "/guacamole"
}

// Connections returns a copy of the registered connections keyed by identifier.
func (f *Fake) Connections() map[string]Connection {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]Connection, len(f.connections))
	for k, v := range f.connections {
		out[k] = v
	}

	return out
}

func (f *Fake) SetFailures(tokens, create, del bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.FailTokens, f.FailCreate, f.FailDelete = tokens, create, del
}

func (f *Fake) tokens(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if f.FailTokens || r.PostForm.Get("username") != Username || r.PostForm.Get("password") != Password {
		http.Error(w, `{"message":"Permission Denied."}`, http.StatusForbidden)
		return
	}

	writeJSON(w, map[string]string{"authToken": AuthToken, "dataSource": "postgresql"})
}

func (f *Fake) createConnection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Query().Get("token") != AuthToken {
		http.Error(w, "", http.StatusForbidden)
		return
	}

	if f.FailCreate {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	var conn Connection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.counter++
	conn.Identifier = strconv.Itoa(f.counter)
	f.connections[conn.Identifier] = conn

	writeJSON(w, conn)
}

func (f *Fake) deleteConnection(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Query().Get("token") != AuthToken {
		http.Error(w, "", http.StatusForbidden)
		return
	}

	if f.FailDelete {
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	id := r.PathValue("id")
	if _, ok := f.connections[id]; !ok {
		http.Error(w, "", http.StatusNotFound)
		return
	}

	delete(f.connections, id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// New starts a fake gateway. It is shut down when the test ends.
func New(t *testing.T) *Fake {
	t.Helper()

	fake := &Fake{
		t:           t,
		connections: make(map[string]Connection),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /guacamole/api/tokens", fake.tokens)
	mux.HandleFunc("POST /guacamole/api/session/data/{dataSource}/connections", fake.createConnection)
	mux.HandleFunc("DELETE /guacamole/api/session/data/{dataSource}/connections/{id}", fake.deleteConnection)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Logf("guacamolefake: unexpected request %s %s", r.Method, strings.TrimSpace(r.URL.String()))
		http.NotFound(w, r)
	})

	fake.Server = httptest.NewServer(mux)
	t.Cleanup(fake.Server.Close)

	return fake
}
