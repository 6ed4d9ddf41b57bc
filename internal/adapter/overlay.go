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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexandremahdhaoui/vncfleet/pkg/execcontext"
)

var (
	ErrOverlayCreate     = errors.New("creating overlay")
	ErrOverlayDelete     = errors.New("deleting overlay")
	ErrBaseImageNotFound = errors.New("base image not found")

	errCreateOverlaysDir = errors.New("creating overlays directory")
)

const (
	// DefaultDiskImageTool is the binary used to create overlays.
	DefaultDiskImageTool = "qemu-img"

	overlayFormat = "qcow2"
)

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// Overlay creates and destroys copy-on-write disk overlays backed by a shared base image.
type Overlay interface {
	// Create materializes the overlay of the given node and returns its path.
	Create(ctx context.Context, nodeID string) (string, error)
	// Delete removes the overlay at path.
	Delete(ctx context.Context, path string) error
	// Recreate deletes then creates the overlay at path. A missing overlay is not an error.
	Recreate(ctx context.Context, path string) error
}

// OverlayConfig configures the Overlay store.
type OverlayConfig struct {
	// BaseImagePath is the shared read-only base image.
	BaseImagePath string
	// OverlaysDir holds one overlay per node.
	OverlaysDir string
	// DiskImageTool defaults to DefaultDiskImageTool.
	DiskImageTool string
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewOverlay returns a new Overlay. The overlays directory is created if absent.
func NewOverlay(execCtx execcontext.Context, cfg OverlayConfig) (Overlay, error) {
	if cfg.DiskImageTool == "" {
		cfg.DiskImageTool = DefaultDiskImageTool
	}

	if err := os.MkdirAll(cfg.OverlaysDir, 0o755); err != nil {
		return nil, errors.Join(err, fmt.Errorf("overlaysDir=%s", cfg.OverlaysDir), errCreateOverlaysDir)
	}

	return &overlay{
		execCtx: execCtx,
		cfg:     cfg,
	}, nil
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type overlay struct {
	execCtx execcontext.Context
	cfg     OverlayConfig
}

// --------------------------------------------- Create ------------------------------------------------------------- //

func (o *overlay) Create(ctx context.Context, nodeID string) (string, error) {
	path := filepath.Join(o.cfg.OverlaysDir, fmt.Sprintf("%s.%s", nodeID, overlayFormat))

	if err := o.create(ctx, path); err != nil {
		return "", err
	}

	return path, nil
}

func (o *overlay) create(ctx context.Context, path string) error {
	if _, err := os.Stat(o.cfg.BaseImagePath); err != nil {
		return errors.Join(
			err,
			fmt.Errorf("baseImagePath=%s", o.cfg.BaseImagePath),
			ErrBaseImageNotFound,
			ErrOverlayCreate,
		)
	}

	args := []string{
		"create",
		"-f", overlayFormat,
		"-b", o.cfg.BaseImagePath,
		"-F", overlayFormat,
		path,
	}

	slog.DebugContext(ctx, "creating overlay",
		"cmd", execcontext.FormatCmd(o.execCtx, append([]string{o.cfg.DiskImageTool}, args...)...))

	cmd := execcontext.Command(ctx, o.execCtx, o.cfg.DiskImageTool, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return errors.Join(err, fmt.Errorf("output: %s", output), ErrOverlayCreate)
	}

	return nil
}

// --------------------------------------------- Delete ------------------------------------------------------------- //

func (o *overlay) Delete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return errors.Join(err, ErrOverlayDelete)
	}

	return nil
}

// --------------------------------------------- Recreate ----------------------------------------------------------- //

func (o *overlay) Recreate(ctx context.Context, path string) error {
	if err := o.Delete(ctx, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.WarnContext(ctx, "overlay_delete_failed", "overlay_path", path, "error", err.Error())
	}

	return o.create(ctx, path)
}
