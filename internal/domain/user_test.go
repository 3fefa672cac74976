package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthProviderValid(t *testing.T) {
	assert.True(t, AuthProviderGoogle.Valid())
	assert.True(t, AuthProviderGithub.Valid())
	assert.False(t, AuthProvider("facebook").Valid())
	assert.False(t, AuthProvider("").Valid())
}
