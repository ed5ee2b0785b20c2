// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
)

// SkipAITests skips the test unless RUN_AI_TESTS is set. Use it for tests
// that call hosted AI APIs and need real keys.
//
// Run them with: RUN_AI_TESTS=1 go test ./...
func SkipAITests(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_AI_TESTS") == "" {
		t.Skip("Skipping AI test (set RUN_AI_TESTS=1 to run)")
	}
}
