package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRetryable(t *testing.T) {
	deadlock := &pgconn.PgError{Code: "40P01"}
	wrapped := fault.Infrastructure("decrement stock", fmt.Errorf("decrement stock: %w", deadlock))

	assert.True(t, retryable(wrapped))
	assert.True(t, retryable(&pgconn.PgError{Code: "40001"}))
	assert.False(t, retryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, retryable(fault.InsufficientStock("p", "P", 2, 1)))
	assert.False(t, retryable(errors.New("boom")))
	assert.False(t, retryable(nil))
}

func TestValidID(t *testing.T) {
	assert.True(t, validID("7f1c2a9e-3b4d-4e5f-8a6b-9c0d1e2f3a4b"))
	assert.False(t, validID("p-1"))
	assert.False(t, validID(""))
}
