//go:build tools

// Package imahima pins the code generators used by go:generate (mockgen)
// so they are tracked in go.mod like any other dependency.
package imahima

import (
	_ "go.uber.org/mock/mockgen"
)
