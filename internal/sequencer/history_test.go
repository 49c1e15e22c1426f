package sequencer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryPushEvictsOldest(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Push(fmt.Sprintf("p%d", i))
	}
	assert.Equal(t, []string{"p2", "p3", "p4"}, h.Paths())
	assert.Equal(t, 2, h.Cursor())
	assert.True(t, h.AtTail())
}

func TestHistoryBackForward(t *testing.T) {
	h := NewHistory(10)
	_, ok := h.Back()
	assert.False(t, ok)
	_, ok = h.Current()
	assert.False(t, ok)

	h.Push("p0")
	h.Push("p1")
	h.Push("p2")

	p, ok := h.Back()
	assert.True(t, ok)
	assert.Equal(t, "p1", p)
	p, ok = h.Back()
	assert.True(t, ok)
	assert.Equal(t, "p0", p)
	_, ok = h.Back()
	assert.False(t, ok)
	assert.Equal(t, 0, h.Cursor())

	p, ok = h.Forward()
	assert.True(t, ok)
	assert.Equal(t, "p1", p)
	assert.False(t, h.AtTail())

	h.Push("p3")
	assert.Equal(t, 3, h.Cursor())
	assert.Equal(t, []string{"p0", "p1", "p2", "p3"}, h.Paths())
}

func TestHistoryRemove(t *testing.T) {
	tests := []struct {
		name       string
		paths      []string
		cursor     int
		remove     string
		wantPaths  []string
		wantCursor int
		wantCount  int
	}{
		{"before cursor", []string{"a", "b", "c"}, 2, "a", []string{"b", "c"}, 1, 1},
		{"after cursor", []string{"a", "b", "c"}, 1, "c", []string{"a", "b"}, 1, 1},
		{"at cursor moves back", []string{"a", "b", "c"}, 1, "b", []string{"a", "c"}, 0, 1},
		{"at head cursor stays valid", []string{"a", "b", "c"}, 0, "a", []string{"b", "c"}, 0, 1},
		{"at tail", []string{"a", "b", "c"}, 2, "c", []string{"a", "b"}, 1, 1},
		{"duplicates", []string{"a", "b", "a", "c"}, 3, "a", []string{"b", "c"}, 1, 2},
		{"last entry", []string{"a"}, 0, "a", []string{}, -1, 1},
		{"missing", []string{"a", "b"}, 1, "z", []string{"a", "b"}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory(10)
			for _, p := range tt.paths {
				h.Push(p)
			}
			h.cursor = tt.cursor

			n := h.Remove(tt.remove)
			assert.Equal(t, tt.wantCount, n)
			assert.Equal(t, tt.wantPaths, h.Paths())
			assert.Equal(t, tt.wantCursor, h.Cursor())
		})
	}
}
