package intake

import (
	"testing"

	"go.uber.org/goleak"
)

// Every run must release its session before returning.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
