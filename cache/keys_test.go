package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, Key("search", "bihar polls"), Key("search", "bihar polls"))
	})

	t.Run("DifferentPartsDiffer", func(t *testing.T) {
		assert.NotEqual(t, Key("search", "bihar polls"), Key("search", "delhi polls"))
		assert.NotEqual(t, Key("search", "bihar polls"), Key("analysis", "bihar polls"))
	})

	t.Run("PartBoundariesMatter", func(t *testing.T) {
		assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	})

	t.Run("FixedLength", func(t *testing.T) {
		short := Key("a")
		long := Key("search", string(make([]byte, 4096)))
		assert.Len(t, short, 64)
		assert.Len(t, long, 64)
	})
}
