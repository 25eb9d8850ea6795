package lib

// Set is a set of comparable values, used for role and path allow-lists
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](values ...T) Set[T] {
	s := make(Set[T], len(values))
	s.Add(values...)
	return s
}

func (s Set[T]) Add(value ...T) {
	for _, v := range value {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Remove(value T) bool {
	_, c := s[value]
	delete(s, value)
	return c
}

func (s Set[T]) Contains(value T) bool {
	_, c := s[value]
	return c
}

func (s Set[T]) Len() int {
	return len(s)
}

func (s Set[T]) ToSlice() []T {
	keys := make([]T, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	return keys
}
