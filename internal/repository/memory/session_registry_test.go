package memory

import (
	"testing"

	"deal-intake-be/pkg/stream"

	"github.com/stretchr/testify/assert"
)

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	intake := &ActiveIntake{Channel: stream.NewChannel("s1")}

	t.Run("save and get", func(t *testing.T) {
		r.Save("s1", intake)

		got, found := r.Get("s1")
		assert.True(t, found)
		assert.Same(t, intake, got)
		assert.Equal(t, 1, r.Count())
	})

	t.Run("unknown id misses", func(t *testing.T) {
		_, found := r.Get("nope")
		assert.False(t, found)
	})

	t.Run("retired entries stay resolvable", func(t *testing.T) {
		r.Retire("s1")

		_, found := r.Get("s1")
		assert.True(t, found)
	})

	t.Run("retiring an unknown id is a no-op", func(t *testing.T) {
		r.Retire("nope")
		assert.Equal(t, 1, r.Count())
	})

	t.Run("delete", func(t *testing.T) {
		r.Delete("s1")
		_, found := r.Get("s1")
		assert.False(t, found)
		assert.Equal(t, 0, r.Count())
	})
}
