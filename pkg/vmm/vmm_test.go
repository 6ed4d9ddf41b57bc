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

package vmm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithConnection(t *testing.T) {
	v := &vmmImpl{uri: DefaultURI}

	WithConnection("")(v)
	assert.Equal(t, DefaultURI, v.uri)

	WithConnection("qemu:///session")(v)
	assert.Equal(t, "qemu:///session", v.uri)
}

func TestVMMInterface_ImplementsAllMethods(t *testing.T) {
	var _ VMM = (*vmmImpl)(nil)
}

func TestVMM_NotInitialized(t *testing.T) {
	v := &vmmImpl{}
	ctx := context.Background()

	_, err := v.StartVM(ctx, &VMConfig{Name: "node_1"})
	assert.ErrorIs(t, err, errLibvirtNotInitialized)

	assert.ErrorIs(t, v.ShutdownVM(ctx, "node_1"), errLibvirtNotInitialized)

	_, err = v.IsActive(ctx, "node_1")
	assert.ErrorIs(t, err, errLibvirtNotInitialized)

	assert.NoError(t, v.Close())
}

func TestVMM_IsActive_UnknownDomain(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	v, err := NewVMM()
	require.NoError(t, err)
	defer func() { _ = v.Close() }()

	active, err := v.IsActive(context.Background(), "non-existent-vm")
	require.NoError(t, err)
	assert.False(t, active)
}
