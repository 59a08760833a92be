package palette

import "slices"

// priorityQueue sorts lazily: pushes only mark it dirty and the next read
// re-sorts everything. Queue sizes stay below the target color count, so a
// full stable sort per read is cheap enough.
type priorityQueue[T any] struct {
	compare  func(T, T) int
	contents []T
	sorted   bool
}

func newPriorityQueue[T any](compare func(T, T) int) *priorityQueue[T] {
	return &priorityQueue[T]{compare: compare, sorted: true}
}

func (q *priorityQueue[T]) sort() {
	slices.SortStableFunc(q.contents, q.compare)
	q.sorted = true
}

func (q *priorityQueue[T]) push(item T) {
	q.contents = append(q.contents, item)
	q.sorted = false
}

// peek returns the maximum element without removing it.
func (q *priorityQueue[T]) peek() (T, bool) {
	return q.peekAt(len(q.contents) - 1)
}

// peekAt indexes into the ascending order.
func (q *priorityQueue[T]) peekAt(index int) (T, bool) {
	if !q.sorted {
		q.sort()
	}

	var zero T
	if index < 0 || index >= len(q.contents) {
		return zero, false
	}
	return q.contents[index], true
}

func (q *priorityQueue[T]) pop() (T, bool) {
	if !q.sorted {
		q.sort()
	}

	var zero T
	if len(q.contents) == 0 {
		return zero, false
	}

	last := len(q.contents) - 1
	item := q.contents[last]
	q.contents[last] = zero
	q.contents = q.contents[:last]
	return item, true
}

func (q *priorityQueue[T]) size() int {
	return len(q.contents)
}

// descending returns the contents from maximum to minimum.
func (q *priorityQueue[T]) descending() []T {
	if !q.sorted {
		q.sort()
	}

	items := make([]T, len(q.contents))
	for index, item := range q.contents {
		items[len(items)-1-index] = item
	}
	return items
}
