package besteffort

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"portfolio_backend/internal/logger"
)

func TestDiscardLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Config{Level: "info", Output: &buf})

	Discard(context.Background(), "noop", nil)
	assert.Zero(t, buf.Len())

	Do(context.Background(), "welcome email", func(context.Context) error {
		return errors.New("smtp down")
	})
	assert.Contains(t, buf.String(), "welcome email")
	assert.Contains(t, buf.String(), "smtp down")
}
