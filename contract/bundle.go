package contract

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// Entry points a contract module must export.
const (
	ExportDeploy = "deploy"
	ExportCall   = "call"
)

// CodeInfo summarizes contract code.
type CodeInfo struct {
	Exports   []string
	Imports   []Import
	Size      int
	Hash      [32]byte
	HasDeploy bool
	HasCall   bool
	HasMemory bool
}

// Import is a host function the code imports.
type Import struct {
	Module string
	Name   string
}

func (i Import) String() string {
	return i.Module + "." + i.Name
}

// Valid reports whether the code exports both contract entry points.
func (ci *CodeInfo) Valid() bool {
	return ci.HasDeploy && ci.HasCall
}

// InspectCode validates contract code by compiling it and reports what it
// exports and imports. The code is never instantiated.
func InspectCode(ctx context.Context, code []byte) (*CodeInfo, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("compile contract code: %w", err)
	}
	defer compiled.Close(ctx)

	info := &CodeInfo{
		Size: len(code),
		Hash: blake2b.Sum256(code),
	}
	for name := range compiled.ExportedFunctions() {
		info.Exports = append(info.Exports, name)
		switch name {
		case ExportDeploy:
			info.HasDeploy = true
		case ExportCall:
			info.HasCall = true
		}
	}
	sort.Strings(info.Exports)

	for _, fn := range compiled.ImportedFunctions() {
		mod, name, ok := fn.Import()
		if !ok {
			continue
		}
		info.Imports = append(info.Imports, Import{Module: mod, Name: name})
	}
	info.HasMemory = len(compiled.ImportedMemories()) > 0 || len(compiled.ExportedMemories()) > 0

	Logger().Debug("inspected contract code",
		zap.Int("size", info.Size),
		zap.Strings("exports", info.Exports),
		zap.Int("imports", len(info.Imports)),
		zap.Bool("valid", info.Valid()))
	return info, nil
}

// InspectCode inspects the code embedded in a bundle.
func (c *Contract) InspectCode(ctx context.Context) (*CodeInfo, error) {
	if len(c.code) == 0 {
		return nil, fmt.Errorf("contract %q has no code", c.name)
	}
	return InspectCode(ctx, c.code)
}
