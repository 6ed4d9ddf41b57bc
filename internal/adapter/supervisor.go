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
	"log/slog"
	"os"
	"strconv"
	"syscall"

	"github.com/alexandremahdhaoui/vncfleet/internal/types"
	"github.com/alexandremahdhaoui/vncfleet/pkg/execcontext"
)

var (
	ErrProcessStart      = errors.New("starting hypervisor process")
	ErrProcessNotRunning = errors.New("hypervisor process is not running")
	ErrProcessTerminate  = errors.New("terminating hypervisor process")
	ErrInvalidVNCPort    = errors.New("invalid vnc port")
)

const (
	// VNCBasePort is the TCP port of VNC display :0.
	VNCBasePort = 5900

	// DefaultHypervisorBinary is the default binary started by the qemu supervisor.
	DefaultHypervisorBinary = "qemu-system-x86_64"
	// DefaultMemoryMB is the default guest memory.
	DefaultMemoryMB = 512
)

// --------------------------------------------------- INTERFACES --------------------------------------------------- //

// Supervisor starts hypervisor processes. The returned handle is the only way to stop them.
type Supervisor interface {
	// Start launches the hypervisor of a node and returns immediately. It does not wait for the guest to boot.
	Start(ctx context.Context, spec StartSpec) (types.ProcessHandle, error)
}

// StartSpec describes the hypervisor instance of a node.
type StartSpec struct {
	NodeID      string
	NodeName    string
	OverlayPath string
	VNCPort     int
}

// VNCDisplay returns the VNC display number of the given port.
func VNCDisplay(port int) (int, error) {
	if port < VNCBasePort {
		return 0, errors.Join(fmt.Errorf("port=%d", port), ErrInvalidVNCPort)
	}

	return port - VNCBasePort, nil
}

// QEMUConfig configures the qemu supervisor.
type QEMUConfig struct {
	// Binary defaults to DefaultHypervisorBinary.
	Binary string
	// MemoryMB defaults to DefaultMemoryMB.
	MemoryMB int
	// EnableKVM adds -enable-kvm.
	EnableKVM bool
	// Headless adds -nographic.
	Headless bool
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewQEMUSupervisor returns a Supervisor starting qemu as detached background processes.
func NewQEMUSupervisor(execCtx execcontext.Context, cfg QEMUConfig) Supervisor {
	if cfg.Binary == "" {
		cfg.Binary = DefaultHypervisorBinary
	}

	if cfg.MemoryMB <= 0 {
		cfg.MemoryMB = DefaultMemoryMB
	}

	return &qemuSupervisor{
		execCtx: execCtx,
		cfg:     cfg,
	}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type qemuSupervisor struct {
	execCtx execcontext.Context
	cfg     QEMUConfig
}

func (s *qemuSupervisor) Start(ctx context.Context, spec StartSpec) (types.ProcessHandle, error) {
	display, err := VNCDisplay(spec.VNCPort)
	if err != nil {
		return nil, errors.Join(err, ErrProcessStart)
	}

	args := []string{
		"-hda", spec.OverlayPath,
		"-m", strconv.Itoa(s.cfg.MemoryMB),
		"-vnc", fmt.Sprintf(":%d", display),
	}

	if s.cfg.EnableKVM {
		args = append(args, "-enable-kvm")
	}

	if s.cfg.Headless {
		args = append(args, "-nographic")
	}

	// The process must survive the request that started it.
	cmd := execcontext.DetachedCommand(s.execCtx, s.cfg.Binary, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return nil, errors.Join(err, fmt.Errorf("nodeID=%s", spec.NodeID), ErrProcessStart)
	}

	slog.InfoContext(ctx, "hypervisor_started",
		"node_id", spec.NodeID,
		"pid", cmd.Process.Pid,
		"vnc_port", spec.VNCPort,
		"cmd", execcontext.FormatCmd(s.execCtx, append([]string{s.cfg.Binary}, args...)...),
	)

	h := &processHandle{
		process: cmd.Process,
		pid:     cmd.Process.Pid,
		done:    make(chan struct{}),
	}

	// reap the process so that IsAlive reflects its exit and no zombie is left behind.
	go func() {
		err := cmd.Wait()
		slog.Info("hypervisor_exited", "node_id", spec.NodeID, "pid", h.pid, "error", errString(err))
		close(h.done)
	}()

	return h, nil
}

// --------------------------------------------- PROCESS HANDLE ----------------------------------------------------- //

type processHandle struct {
	process *os.Process
	pid     int
	done    chan struct{}
}

func (h *processHandle) ID() string {
	return strconv.Itoa(h.pid)
}

func (h *processHandle) IsAlive(context.Context) bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *processHandle) Terminate() error {
	if !h.IsAlive(context.Background()) {
		return errors.Join(fmt.Errorf("pid=%d", h.pid), ErrProcessNotRunning)
	}

	if err := h.process.Signal(syscall.SIGTERM); err != nil {
		return errors.Join(err, fmt.Errorf("pid=%d", h.pid), ErrProcessTerminate)
	}

	return nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}
