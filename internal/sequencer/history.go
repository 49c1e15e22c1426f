package sequencer

// DefaultHistoryCapacity bounds the Random algorithm's back-stack.
const DefaultHistoryCapacity = 100

// History is a bounded record of Random selections with its own cursor.
// The cursor is a valid index whenever the history is non-empty and -1
// otherwise.
type History struct {
	paths    []string
	cursor   int
	capacity int
}

// NewHistory returns an empty history holding at most capacity paths.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		paths:    make([]string, 0, capacity),
		cursor:   -1,
		capacity: capacity,
	}
}

// Len returns the number of recorded paths.
func (h *History) Len() int {
	return len(h.paths)
}

// Cursor returns the current position, or -1 when empty.
func (h *History) Cursor() int {
	return h.cursor
}

// Paths returns a copy of the recorded paths, oldest first.
func (h *History) Paths() []string {
	out := make([]string, len(h.paths))
	copy(out, h.paths)
	return out
}

// Current returns the path under the cursor.
func (h *History) Current() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	return h.paths[h.cursor], true
}

// AtTail reports whether the cursor is on the newest entry.
func (h *History) AtTail() bool {
	return h.cursor == len(h.paths)-1
}

// Push appends path, evicting the oldest entry when full, and moves the
// cursor to the new tail.
func (h *History) Push(path string) {
	if len(h.paths) == h.capacity {
		copy(h.paths, h.paths[1:])
		h.paths = h.paths[:len(h.paths)-1]
	}
	h.paths = append(h.paths, path)
	h.cursor = len(h.paths) - 1
}

// Back moves the cursor one step toward the oldest entry. At the oldest
// entry the cursor stays put and ok is false.
func (h *History) Back() (string, bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.paths[h.cursor], true
}

// Forward moves the cursor one step toward the newest entry.
func (h *History) Forward() (string, bool) {
	if h.cursor < 0 || h.AtTail() {
		return "", false
	}
	h.cursor++
	return h.paths[h.cursor], true
}

// Remove deletes every occurrence of path. The cursor keeps pointing at the
// same entry when an earlier one is removed; when the entry under the cursor
// goes, the cursor moves to its predecessor.
func (h *History) Remove(path string) int {
	before, removed := 0, 0
	hitCursor := false
	kept := h.paths[:0]
	for i, p := range h.paths {
		if p != path {
			kept = append(kept, p)
			continue
		}
		removed++
		switch {
		case i < h.cursor:
			before++
		case i == h.cursor:
			hitCursor = true
		}
	}
	h.paths = kept
	if removed == 0 {
		return 0
	}

	h.cursor -= before
	if hitCursor {
		h.cursor--
	}

	switch {
	case len(h.paths) == 0:
		h.cursor = -1
	case h.cursor >= len(h.paths):
		h.cursor = len(h.paths) - 1
	case h.cursor < 0:
		h.cursor = 0
	}
	return removed
}
