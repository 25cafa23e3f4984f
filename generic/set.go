package generic

// Void is the value type of maps used as sets, and the response type of requests that only signal completion.
type Void struct{}

type Set[T comparable] interface {
	// Add reports whether item was new.
	Add(item T) bool
	Clear()
	Contains(items ...T) bool
	// Remove reports whether item was present.
	Remove(item T) bool
	ToSlice() []T
}

func NewSet[T comparable](items ...T) Set[T] {
	s := make(set[T], len(items))
	for _, item := range items {
		s[item] = Void{}
	}
	return s
}

type set[T comparable] map[T]Void

func (s set[T]) Add(item T) bool {
	if _, found := s[item]; found {
		return false
	}
	s[item] = Void{}
	return true
}

func (s set[T]) Clear() {
	clear(s)
}

func (s set[T]) Contains(items ...T) bool {
	for _, item := range items {
		if _, found := s[item]; !found {
			return false
		}
	}
	return true
}

func (s set[T]) Remove(item T) bool {
	if _, found := s[item]; !found {
		return false
	}
	delete(s, item)
	return true
}

func (s set[T]) ToSlice() []T {
	items := make([]T, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	return items
}

// AppendUnique appends each item not already in dst or earlier in items, keeping order. Tracker and node lists are
// merged this way.
func AppendUnique[T comparable](dst []T, items ...T) []T {
	seen := NewSet(dst...)
	for _, item := range items {
		if seen.Add(item) {
			dst = append(dst, item)
		}
	}
	return dst
}
