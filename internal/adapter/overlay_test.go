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

package adapter_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/vncfleet/internal/adapter"
	"github.com/alexandremahdhaoui/vncfleet/internal/util/testutil"
	"github.com/alexandremahdhaoui/vncfleet/pkg/execcontext"
)

// fakeQemuImg records its arguments and touches the last one, like "qemu-img create" does.
const fakeQemuImg = `echo "$@" >> "$(dirname "$0")/calls.log"
for last; do :; done
touch "$last"`

func TestOverlay(t *testing.T) {
	var (
		ctx       context.Context
		dir       string
		baseImage string
		calls     string
		overlay   adapter.Overlay
	)

	setup := func(t *testing.T, script string) {
		t.Helper()

		ctx = context.Background()
		dir = t.TempDir()
		baseImage = filepath.Join(dir, "base.qcow2")
		calls = filepath.Join(dir, "calls.log")
		require.NoError(t, os.WriteFile(baseImage, []byte("base"), 0o644))

		var err error
		overlay, err = adapter.NewOverlay(execcontext.New(nil, nil), adapter.OverlayConfig{
			BaseImagePath: baseImage,
			OverlaysDir:   filepath.Join(dir, "overlays"),
			DiskImageTool: testutil.WriteScript(t, dir, "qemu-img", script),
		})
		require.NoError(t, err)
	}

	t.Run("Create", func(t *testing.T) {
		setup(t, fakeQemuImg)

		path, err := overlay.Create(ctx, "node_1")
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "overlays", "node_1.qcow2"), path)
		assert.FileExists(t, path)

		b, err := os.ReadFile(calls)
		require.NoError(t, err)
		assert.Equal(t, "create -f qcow2 -b "+baseImage+" -F qcow2 "+path, strings.TrimSpace(string(b)))
	})

	t.Run("Create_BaseImageMissing", func(t *testing.T) {
		setup(t, fakeQemuImg)
		require.NoError(t, os.Remove(baseImage))

		_, err := overlay.Create(ctx, "node_1")
		assert.ErrorIs(t, err, adapter.ErrBaseImageNotFound)
		assert.ErrorIs(t, err, adapter.ErrOverlayCreate)
		assert.NoFileExists(t, calls)
	})

	t.Run("Create_ToolFails", func(t *testing.T) {
		setup(t, `echo "boom" >&2; exit 1`)

		_, err := overlay.Create(ctx, "node_1")
		assert.ErrorIs(t, err, adapter.ErrOverlayCreate)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("Delete", func(t *testing.T) {
		setup(t, fakeQemuImg)

		path, err := overlay.Create(ctx, "node_1")
		require.NoError(t, err)

		require.NoError(t, overlay.Delete(ctx, path))
		assert.NoFileExists(t, path)

		assert.ErrorIs(t, overlay.Delete(ctx, path), adapter.ErrOverlayDelete)
	})

	t.Run("Recreate", func(t *testing.T) {
		setup(t, fakeQemuImg)

		path, err := overlay.Create(ctx, "node_1")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte("guest writes"), 0o644))

		require.NoError(t, overlay.Recreate(ctx, path))

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Empty(t, b)
	})

	t.Run("Recreate_MissingOverlay", func(t *testing.T) {
		setup(t, fakeQemuImg)

		path := filepath.Join(dir, "overlays", "node_9.qcow2")
		require.NoError(t, overlay.Recreate(ctx, path))
		assert.FileExists(t, path)
	})
}
