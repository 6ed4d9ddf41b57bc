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

package httputil

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

var ErrBasicAuthValidation = errors.New("validating basic auth credentials")

// BasicAuth is a middleware that performs basic authentication.
func BasicAuth(
	next http.Handler,
	validator func(username, password string, r *http.Request) (bool, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) { //nolint:varnamelen
		// If no Authorization header is present or the header value is invalid, then 'ok' will be false.
		username, password, ok := r.BasicAuth()
		if ok {
			if ok, err := validator(username, password, r); err != nil {
				WriteError(w, http.StatusInternalServerError, errors.Join(err, ErrBasicAuthValidation))
				return
			} else if ok {
				next.ServeHTTP(w, r)
				return
			}
		}

		// The header is missing, invalid, or the credentials are wrong.
		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
}

// StaticCredentials returns a BasicAuth validator accepting a single username and password pair.
func StaticCredentials(username, password string) func(string, string, *http.Request) (bool, error) {
	return func(u, p string, _ *http.Request) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1

		return userOK && passOK, nil
	}
}

// BcryptCredentials returns a BasicAuth validator accepting username with any password matching the bcrypt hash.
func BcryptCredentials(username string, passwordHash []byte) func(string, string, *http.Request) (bool, error) {
	return func(u, p string, _ *http.Request) (bool, error) {
		userOK := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1

		err := bcrypt.CompareHashAndPassword(passwordHash, []byte(p))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		} else if err != nil {
			return false, err
		}

		return userOK, nil
	}
}
