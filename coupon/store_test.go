package coupon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveOneUse(t *testing.T) {
	got := removeOneUse([]string{"u1", "u2", "u1"}, "u1")
	assert.Equal(t, []string{"u2", "u1"}, got, "only the first occurrence is dropped")
}

func TestRemoveOneUseAbsentUser(t *testing.T) {
	got := removeOneUse([]string{"u1", "u2"}, "u3")
	assert.Equal(t, []string{"u1", "u2"}, got)
}

func TestRemoveOneUseEmpty(t *testing.T) {
	assert.Empty(t, removeOneUse(nil, "u1"))
}
