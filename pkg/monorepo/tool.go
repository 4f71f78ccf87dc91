// SPDX-License-Identifier: MPL-2.0

package monorepo

import (
	"errors"
	"fmt"
)

const (
	// ToolRush is Microsoft Rush (rush.json).
	ToolRush Tool = "rush"
	// ToolPnpm is a pnpm workspace (pnpm-workspace.yaml).
	ToolPnpm Tool = "pnpm"
	// ToolLerna is Lerna (lerna.json).
	ToolLerna Tool = "lerna"
	// ToolNx is Nx (nx.json).
	ToolNx Tool = "nx"
	// ToolTurbo is Turborepo (turbo.json).
	ToolTurbo Tool = "turbo"
	// ToolNpm covers npm and yarn workspaces declared in package.json.
	ToolNpm Tool = "npm"
	// ToolCargo is a Cargo workspace (Cargo.toml with a [workspace] table).
	ToolCargo Tool = "cargo"
	// ToolGoWork is a Go workspace (go.work).
	ToolGoWork Tool = "go"
)

// ErrInvalidTool is the sentinel error wrapped by InvalidToolError.
var ErrInvalidTool = errors.New("invalid monorepo tool")

type (
	// Tool names a monorepo convention.
	Tool string

	// InvalidToolError is returned when a Tool value is not recognized.
	InvalidToolError struct {
		Value Tool
	}
)

// AllTools returns every supported tool in detection order.
func AllTools() []Tool {
	return []Tool{ToolRush, ToolPnpm, ToolLerna, ToolNx, ToolTurbo, ToolNpm, ToolCargo, ToolGoWork}
}

// String returns the string representation of the Tool.
func (t Tool) String() string { return string(t) }

// Validate returns an error if the Tool is not one of AllTools.
func (t Tool) Validate() error {
	for _, known := range AllTools() {
		if t == known {
			return nil
		}
	}
	return &InvalidToolError{Value: t}
}

// Error implements the error interface.
func (e *InvalidToolError) Error() string {
	return fmt.Sprintf("invalid monorepo tool %q (valid: %v)", e.Value, AllTools())
}

// Unwrap returns ErrInvalidTool for errors.Is() compatibility.
func (e *InvalidToolError) Unwrap() error { return ErrInvalidTool }
