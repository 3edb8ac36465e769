package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pos:cart:cart-storage:session-1", CartKey("cart-storage", "session-1"))
	assert.Equal(t, "pos:cart:adjustment-cart-storage:session-1", CartKey("adjustment-cart-storage", "session-1"))
}

func TestCartKeySkipsEmptySegments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pos:cart:session-1", CartKey("", "session-1"))
}
