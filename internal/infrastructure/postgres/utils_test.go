package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/colibri-pos/internal/domain"
)

func TestIsReceiptViolation(t *testing.T) {
	receipt := &pgconn.PgError{Code: "23505", ConstraintName: receiptConstraint}
	sku := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}

	assert.True(t, isReceiptViolation(fmt.Errorf("insert: %w", receipt)))
	assert.False(t, isReceiptViolation(sku))
	assert.True(t, isUniqueViolation(sku))
	assert.False(t, isUniqueViolation(errors.New("otra cosa")))
	assert.True(t, isCheckViolation(&pgconn.PgError{Code: "23514"}))
}

func TestErrDuplicateReceipt_EsSentinel(t *testing.T) {
	err := errDuplicateReceipt(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, err, domain.ErrDuplicateReceipt)
}

func TestDayParam(t *testing.T) {
	assert.Nil(t, dayParam(nil))
	d := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-09", dayParam(&d))
}
