//go:build tools

package tools

// Tool dependencies tracked with blank imports so go.mod pins them.
// Run: go run github.com/vektra/mockery/v2 to regenerate mocks.
import (
	_ "github.com/vektra/mockery/v2"
)
