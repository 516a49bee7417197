// Package set is an insertion ordered set.
package set

import (
	"iter"
	"slices"
)

type Set[T comparable] struct {
	index map[T]struct{}
	array []T
}

func New[T comparable](elem ...T) *Set[T] {
	s := &Set[T]{index: make(map[T]struct{}, len(elem)), array: make([]T, 0, len(elem))}
	s.Add(elem...)
	return s
}

func (s *Set[T]) Add(elem ...T) {
	for _, e := range elem {
		if _, ok := s.index[e]; !ok {
			s.index[e] = struct{}{}
			s.array = append(s.array, e)
		}
	}
}

func (s *Set[T]) Remove(e T) {
	if _, ok := s.index[e]; !ok {
		return
	}
	delete(s.index, e)
	if i := slices.Index(s.array, e); i >= 0 {
		s.array = slices.Delete(s.array, i, i+1)
	}
}

func (s *Set[T]) Contains(e T) bool {
	_, ok := s.index[e]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.array)
}

// Values returns the elements in insertion order.
func (s *Set[T]) Values() []T {
	return slices.Clone(s.array)
}

func (s *Set[T]) Clear() {
	clear(s.index)
	s.array = s.array[:0]
}

// Next iterates in insertion order, including elements added while iterating.
func (s *Set[T]) Next() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < len(s.array); i++ { //nolint:intrange // array can grow while iterating
			if !yield(s.array[i]) {
				return
			}
		}
	}
}
