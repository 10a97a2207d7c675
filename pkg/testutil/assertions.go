package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// IntegrationEnv enables tests that start containers.
const IntegrationEnv = "REDFLAGS_INTEGRATION"

// RequireIntegration skips the test unless REDFLAGS_INTEGRATION=1.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv(IntegrationEnv) != "1" {
		t.Skipf("set %s=1 to run integration tests", IntegrationEnv)
	}
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), expected)
	}
}
