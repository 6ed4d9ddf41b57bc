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

// Package execcontext describes how external tools (qemu-img, qemu-system-*) are executed: which extra environment
// variables they receive and which command, such as "sudo", is prepended to them.
package execcontext

import (
	gocontext "context"
	"fmt"
	"maps"
	"os"
	"os/exec"
	"strings"
)

type Context interface {
	Envs() map[string]string
	PrependCmd() []string
}

func New(envs map[string]string, prependCmd []string) Context {
	return &context{
		prependCmd: prependCmd,
		envs:       envs,
	}
}

type context struct {
	envs       map[string]string
	prependCmd []string
}

// Envs implements Context.
func (c *context) Envs() map[string]string {
	out := make(map[string]string, len(c.envs))
	maps.Copy(out, c.envs)
	return out
}

// PrependCmd implements Context.
func (c *context) PrependCmd() []string {
	out := make([]string, len(c.prependCmd))
	copy(out, c.prependCmd)
	return out
}

// Command returns an *exec.Cmd running name with args under the execution context.
// The command is bound to ctx: cancelling ctx kills it.
func Command(ctx gocontext.Context, execCtx Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...)
	ApplyToCmd(execCtx, cmd)
	return cmd
}

// DetachedCommand returns an *exec.Cmd that outlives any request context.
// It is used for long running processes such as hypervisors.
func DetachedCommand(execCtx Context, name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	ApplyToCmd(execCtx, cmd)
	return cmd
}

// ApplyToCmd adds the context's environment variables to cmd and rewrites cmd so that it is executed through the
// prepended command.
func ApplyToCmd(ctx Context, cmd *exec.Cmd) {
	if envs := ctx.Envs(); len(envs) > 0 {
		if cmd.Env == nil {
			// an empty non-nil Env would drop the parent's environment.
			cmd.Env = os.Environ()
		}

		for k, v := range envs {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	prependCmd := ctx.PrependCmd()
	if len(prependCmd) < 1 {
		return
	}

	tmpCmd := exec.Command(prependCmd[0], prependCmd[1:]...)
	cmd.Path = tmpCmd.Path
	cmd.Err = tmpCmd.Err
	cmd.Args = append(tmpCmd.Args, cmd.Args...)
}

// FormatCmd renders the command as it would be typed in a shell. It is used for logging.
func FormatCmd(ctx Context, cmd ...string) string {
	out := ""

	for k, v := range ctx.Envs() {
		out = fmt.Sprintf("%s%s=%q ", out, k, v)
	}

	for _, s := range ctx.PrependCmd() {
		out = safelyAppendToCmd(out, s)
	}

	for _, s := range cmd {
		out = safelyAppendToCmd(out, s)
	}

	return strings.TrimSpace(out)
}

var unquottable = map[string]struct{}{
	"&&": {},
	"||": {},
	";":  {},
	"&":  {},
}

func safelyAppendToCmd(cmd string, s string) string {
	if _, ok := unquottable[s]; ok {
		return fmt.Sprintf("%s%s ", cmd, s)
	}
	return fmt.Sprintf("%s%q ", cmd, s)
}
