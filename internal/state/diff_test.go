package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffNames(t *testing.T) {
	d := diffNames(
		[]string{"free", "basic", "pro"},
		[]string{"basic", "legacy", "pro"},
	)

	assert.Equal(t, []string{"free"}, d.OnlyDeclared)
	assert.Equal(t, []string{"legacy"}, d.OnlyDatabase)
	assert.Equal(t, []string{"basic", "pro"}, d.Common)
}

func TestDiffNamesEmptyInputs(t *testing.T) {
	d := diffNames(nil, nil)
	assert.Empty(t, d.OnlyDeclared)
	assert.Empty(t, d.OnlyDatabase)
	assert.Empty(t, d.Common)

	d = diffNames([]string{"free"}, nil)
	assert.Equal(t, []string{"free"}, d.OnlyDeclared)

	d = diffNames(nil, []string{"legacy"})
	assert.Equal(t, []string{"legacy"}, d.OnlyDatabase)
}
