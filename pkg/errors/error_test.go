package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidSignal, "stop equals entry")
	assert.Equal(t, "[101] stop equals entry", err.Error())
	assert.Equal(t, ErrCodeInvalidSignal, GetCode(err))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrapf(ErrCodeStrategyPanic, cause, "strategy %s panicked", "trend_following")

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, "[401] strategy trend_following panicked: boom", err.Error())
}

func TestGetCodeNonStructured(t *testing.T) {
	assert.Equal(t, ErrCodeUnknown, GetCode(stderrors.New("plain")))
}

func TestHasCodeThroughChain(t *testing.T) {
	inner := New(ErrCodeInvariantViolation, "second open position")
	outer := fmt.Errorf("replay aborted: %w", inner)

	assert.True(t, HasCode(outer, ErrCodeInvariantViolation))
	assert.False(t, HasCode(outer, ErrCodeDataNotFound))
}

func TestInsufficientDataError(t *testing.T) {
	err := NewInsufficientDataError(50, 12, "15m", "need 50 bars, have 12")

	assert.True(t, IsInsufficientDataError(err))
	assert.Equal(t, "need 50 bars, have 12", err.Error())

	wrapped := Wrap(ErrCodeInsufficientData, "market state build failed", err)
	assert.True(t, IsInsufficientDataError(wrapped))
}
