// Package uqueue provides an ordered collection that ignores duplicates.
//
// Equality is either Go's == for comparable types or a caller-supplied
// function, which lets callers treat differently spelled values as the same
// element. Elements keep first-seen order. A Queue is not safe for
// concurrent use.
package uqueue

import (
	"fmt"
	"strings"
)

// Queue is a first-in first-out collection of distinct elements
type Queue[T any] struct {
	items []T
	equal func(a, b T) bool
}

// New creates a queue that compares elements with ==
func New[T comparable]() *Queue[T] {
	return &Queue[T]{equal: func(a, b T) bool { return a == b }}
}

// NewFunc creates a queue that compares elements with equal.
// equal must be symmetric; it panics if nil.
func NewFunc[T any](equal func(a, b T) bool) *Queue[T] {
	if equal == nil {
		panic("uqueue: nil equality function")
	}
	return &Queue[T]{equal: equal}
}

// Add appends element unless an equal element is already present.
// It returns the queue so calls can be chained.
func (q *Queue[T]) Add(element T) *Queue[T] {
	if !q.Contains(element) {
		q.items = append(q.items, element)
	}
	return q
}

// AddAll adds each element in order
func (q *Queue[T]) AddAll(elements ...T) *Queue[T] {
	for _, e := range elements {
		q.Add(e)
	}
	return q
}

// Contains reports whether an element equal to element is present
func (q *Queue[T]) Contains(element T) bool {
	for _, item := range q.items {
		if q.equal(element, item) {
			return true
		}
	}
	return false
}

// Len returns the number of elements
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// IsEmpty reports whether the queue holds no elements
func (q *Queue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

// Remove pops the front element. ok is false when the queue is empty.
func (q *Queue[T]) Remove() (element T, ok bool) {
	if len(q.items) == 0 {
		return element, false
	}

	element = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]

	return element, true
}

// At returns the element at index i. It panics if i is out of range.
func (q *Queue[T]) At(i int) T {
	return q.items[i]
}

// Items returns a copy of the elements in order
func (q *Queue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}

// Join formats each element with fmt and joins them with sep
func (q *Queue[T]) Join(sep string) string {
	parts := make([]string, len(q.items))
	for i, item := range q.items {
		parts[i] = fmt.Sprint(item)
	}
	return strings.Join(parts, sep)
}
