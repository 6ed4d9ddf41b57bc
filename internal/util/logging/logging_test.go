//go:build unit

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

package logging_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vncfleet/internal/util/logging"
)

func TestParseLevel(t *testing.T) {
	for input, expected := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		t.Run(input, func(t *testing.T) {
			level, err := logging.ParseLevel(input)
			require.NoError(t, err)
			assert.Equal(t, expected, level)
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		_, err := logging.ParseLevel("verbose")
		assert.ErrorIs(t, err, logging.ErrInvalidLevel)
	})
}

func TestSetup(t *testing.T) {
	logger := logging.Setup(logging.Options{Development: true, Level: slog.LevelDebug})
	assert.True(t, logger.V(1).Enabled())
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))

	logger = logging.Setup(logging.DefaultOptions())
	assert.False(t, logger.V(1).Enabled())
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
