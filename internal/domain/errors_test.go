package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, NewNotFoundError("user", "42"), ErrNotFound)
	assert.ErrorIs(t, NewDuplicateError("user", "email", "a@b.c"), ErrDuplicate)
	assert.ErrorIs(t, NewRestrictedError("subscription type", "42"), ErrRestricted)
	assert.ErrorIs(t,
		&TransitionError{From: SubscriptionStatusExpired, To: SubscriptionStatusActive},
		ErrInvalidTransition)

	assert.NotErrorIs(t, NewNotFoundError("user", "42"), ErrDuplicate)
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("get user: %w", NewNotFoundError("user", "42"))
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "user", nf.Entity)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "user with ID 42 not found", NewNotFoundError("user", "42").Error())
	assert.Equal(t, "user with email 'a@b.c' already exists", NewDuplicateError("user", "email", "a@b.c").Error())
	assert.Equal(t,
		"cannot transition subscription from expired to active",
		(&TransitionError{From: SubscriptionStatusExpired, To: SubscriptionStatusActive}).Error())
}
