package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoDuplicatesAcrossSequentialCalls(t *testing.T) {
	g := New()
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		id := g.New("booking")
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s at call %d", id, i)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, 1000)
}

func TestNew_UsesPrefix(t *testing.T) {
	g := New()

	assert.True(t, strings.HasPrefix(g.New("notification"), "notification_"))
	assert.True(t, strings.HasPrefix(g.New(""), "doc_"))
}

func TestBookingNumber_Format(t *testing.T) {
	g := New()
	n := g.BookingNumber()

	assert.True(t, strings.HasPrefix(n, "HC-"))
	assert.LessOrEqual(t, len(n), 9)
	assert.Equal(t, strings.ToUpper(n), n)
}
