package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContainerDeleted(t *testing.T) {
	c := &Container{}
	assert.False(t, c.Deleted())

	now := time.Now()
	c.DeletedAt = &now
	assert.True(t, c.Deleted())
}
