package lists

type listNode[T comparable] struct {
	prev *listNode[T]
	next *listNode[T]
	data T
}

// LinkedList is a doubly linked list of payloads it does not own.
// Remove* methods hand the payload back to the caller, Delete* methods
// also pass it to Release.
//
// Payloads are compared with == by the *Ptr methods, payloads are
// usually pointers.
type LinkedList[T comparable] struct {
	// Release is called on payloads dropped by Delete* methods, it may be nil.
	Release func(T)

	first  *listNode[T]
	last   *listNode[T]
	length int
	merged bool
}

// NewLinkedList creates an empty list.
func NewLinkedList[T comparable](release func(T)) *LinkedList[T] {
	return &LinkedList[T]{Release: release}
}

func (l *LinkedList[T]) check() {
	if l.merged {
		panic("lists: LinkedList used after being merged")
	}
}

// unlink detaches n, it must belong to l.
func (l *LinkedList[T]) unlink(n *listNode[T]) {
	switch {
	case n == l.first:
		if l.first = n.next; n.next != nil {
			n.next.prev = nil
		} else {
			l.last = nil
		}
	case n == l.last:
		l.last = n.prev
		n.prev.next = nil
	default:
		n.prev.next = n.next
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	l.length--
}

func (l *LinkedList[T]) insertAfter(at *listNode[T], data T) {
	n := &listNode[T]{prev: at, next: at.next, data: data}
	if at.next != nil {
		at.next.prev = n
	} else {
		l.last = n
	}
	at.next = n
	l.length++
}

func (l *LinkedList[T]) nodeAt(index int) *listNode[T] {
	if index < 0 {
		return nil
	}
	curr := l.first
	for i := 0; i < index && curr != nil; i++ {
		curr = curr.next
	}
	return curr
}

func (l *LinkedList[T]) release(data T) {
	if l.Release != nil {
		l.Release(data)
	}
}

// Size returns the number of elements.
func (l *LinkedList[T]) Size() int {
	l.check()
	return l.length
}

// IsEmpty indicates the list has no element.
func (l *LinkedList[T]) IsEmpty() bool {
	l.check()
	return l.first == nil
}

// Values returns the payloads from first to last.
func (l *LinkedList[T]) Values() []T {
	l.check()
	values := make([]T, 0, l.length)
	for curr := l.first; curr != nil; curr = curr.next {
		values = append(values, curr.data)
	}
	return values
}

// AddFirst inserts data at the head.
func (l *LinkedList[T]) AddFirst(data T) {
	l.check()
	n := &listNode[T]{next: l.first, data: data}
	if l.first != nil {
		l.first.prev = n
	} else {
		l.last = n
	}
	l.first = n
	l.length++
}

// AddLast appends data at the tail.
func (l *LinkedList[T]) AddLast(data T) {
	l.check()
	if l.last == nil {
		l.AddFirst(data)
		return
	}
	l.insertAfter(l.last, data)
}

// AddMiddle inserts data so that it ends up at index (0-based).
// index may range from 0 to Size().
func (l *LinkedList[T]) AddMiddle(data T, index int) error {
	l.check()
	if index == 0 {
		l.AddFirst(data)
		return nil
	}
	prev := l.nodeAt(index - 1)
	if prev == nil {
		return ErrOutOfRange
	}
	l.insertAfter(prev, data)
	return nil
}

// AddSorted inserts data before the first element it is smaller than,
// the list being already sorted with isSmaller. Equal elements are not
// smaller than each other, so data goes after its duplicates and
// insertion order is kept.
func (l *LinkedList[T]) AddSorted(data T, isSmaller func(a, b T) bool) {
	l.check()
	if l.first == nil || isSmaller(data, l.first.data) {
		l.AddFirst(data)
		return
	}
	curr := l.first
	for curr.next != nil && !isSmaller(data, curr.next.data) {
		curr = curr.next
	}
	l.insertAfter(curr, data)
}

// GetFirst returns the head payload.
func (l *LinkedList[T]) GetFirst() (data T, ok bool) {
	l.check()
	if l.first == nil {
		return
	}
	return l.first.data, true
}

// GetLast returns the tail payload.
func (l *LinkedList[T]) GetLast() (data T, ok bool) {
	l.check()
	if l.last == nil {
		return
	}
	return l.last.data, true
}

// GetMiddle returns the payload at index.
func (l *LinkedList[T]) GetMiddle(index int) (data T, err error) {
	l.check()
	n := l.nodeAt(index)
	if n == nil {
		return data, ErrOutOfRange
	}
	return n.data, nil
}

// GetFilter returns the first payload matching.
func (l *LinkedList[T]) GetFilter(match func(T) bool) (data T, ok bool) {
	l.check()
	for curr := l.first; curr != nil; curr = curr.next {
		if match(curr.data) {
			return curr.data, true
		}
	}
	return
}

// RemoveFirst removes the head and returns its payload.
func (l *LinkedList[T]) RemoveFirst() (data T, ok bool) {
	l.check()
	if l.first == nil {
		return
	}
	n := l.first
	l.unlink(n)
	return n.data, true
}

// RemoveLast removes the tail and returns its payload.
func (l *LinkedList[T]) RemoveLast() (data T, ok bool) {
	l.check()
	if l.last == nil {
		return
	}
	n := l.last
	l.unlink(n)
	return n.data, true
}

// RemoveMiddle removes the element at index and returns its payload.
func (l *LinkedList[T]) RemoveMiddle(index int) (data T, err error) {
	l.check()
	n := l.nodeAt(index)
	if n == nil {
		return data, ErrOutOfRange
	}
	l.unlink(n)
	return n.data, nil
}

// RemovePtr removes the first element holding data.
func (l *LinkedList[T]) RemovePtr(data T) bool {
	_, ok := l.RemoveFilter(func(v T) bool { return v == data })
	return ok
}

// RemoveFilter removes the first element matching and returns its payload.
func (l *LinkedList[T]) RemoveFilter(match func(T) bool) (data T, ok bool) {
	l.check()
	for curr := l.first; curr != nil; curr = curr.next {
		if match(curr.data) {
			l.unlink(curr)
			return curr.data, true
		}
	}
	return
}

// RemoveAll empties the list and returns the number of elements removed.
func (l *LinkedList[T]) RemoveAll() int {
	return l.RemoveIf(func(T) bool { return true })
}

// RemoveAllPtr removes every element holding data.
func (l *LinkedList[T]) RemoveAllPtr(data T) int {
	return l.RemoveIf(func(v T) bool { return v == data })
}

// RemoveIf removes every element matching.
func (l *LinkedList[T]) RemoveIf(match func(T) bool) int {
	return l.removeIf(match, nil)
}

func (l *LinkedList[T]) removeIf(match func(T) bool, release func(T)) (count int) {
	l.check()
	for curr := l.first; curr != nil; {
		next := curr.next
		if match(curr.data) {
			l.unlink(curr)
			if release != nil {
				release(curr.data)
			}
			count++
		}
		curr = next
	}
	return
}

// DeleteFirst removes the head and releases its payload.
func (l *LinkedList[T]) DeleteFirst() bool {
	data, ok := l.RemoveFirst()
	if ok {
		l.release(data)
	}
	return ok
}

// DeleteLast removes the tail and releases its payload.
func (l *LinkedList[T]) DeleteLast() bool {
	data, ok := l.RemoveLast()
	if ok {
		l.release(data)
	}
	return ok
}

// DeleteMiddle removes the element at index and releases its payload.
func (l *LinkedList[T]) DeleteMiddle(index int) error {
	data, err := l.RemoveMiddle(index)
	if err == nil {
		l.release(data)
	}
	return err
}

// DeletePtr removes the first element holding data and releases data.
func (l *LinkedList[T]) DeletePtr(data T) bool {
	ok := l.RemovePtr(data)
	if ok {
		l.release(data)
	}
	return ok
}

// DeleteFilter removes the first element matching and releases its payload.
func (l *LinkedList[T]) DeleteFilter(match func(T) bool) bool {
	data, ok := l.RemoveFilter(match)
	if ok {
		l.release(data)
	}
	return ok
}

// DeleteAll empties the list, releasing every payload.
// A payload stored twice is released twice, see DeleteAllWithDuplicates.
func (l *LinkedList[T]) DeleteAll() int {
	return l.removeIf(func(T) bool { return true }, l.release)
}

// DeleteAllPtr removes every element holding data and releases data once.
func (l *LinkedList[T]) DeleteAllPtr(data T) int {
	count := l.RemoveAllPtr(data)
	if count > 0 {
		l.release(data)
	}
	return count
}

// DeleteAllWithDuplicates empties the list, releasing each distinct
// payload once.
func (l *LinkedList[T]) DeleteAllWithDuplicates() (count int) {
	for l.first != nil {
		count += l.DeleteAllPtr(l.first.data)
	}
	return
}

// DeleteIf removes every element matching and releases its payload.
func (l *LinkedList[T]) DeleteIf(match func(T) bool) int {
	return l.removeIf(match, l.release)
}

// ExecuteAll calls fn on every payload from first to last.
func (l *LinkedList[T]) ExecuteAll(fn func(T)) {
	l.ExecuteIf(func(T) bool { return true }, fn)
}

// ExecuteIf calls fn on every payload matching, from first to last.
func (l *LinkedList[T]) ExecuteIf(match func(T) bool, fn func(T)) (count int) {
	l.check()
	for curr := l.first; curr != nil; curr = curr.next {
		if match(curr.data) {
			fn(curr.data)
			count++
		}
	}
	return
}

// ReverseExecuteAll calls fn on every payload from last to first.
func (l *LinkedList[T]) ReverseExecuteAll(fn func(T)) {
	l.ReverseExecuteIf(func(T) bool { return true }, fn)
}

// ReverseExecuteIf calls fn on every payload matching, from last to first.
func (l *LinkedList[T]) ReverseExecuteIf(match func(T) bool, fn func(T)) (count int) {
	l.check()
	for curr := l.last; curr != nil; curr = curr.prev {
		if match(curr.data) {
			fn(curr.data)
			count++
		}
	}
	return
}

// Reverse reverses the list in place.
func (l *LinkedList[T]) Reverse() {
	l.check()
	for curr := l.first; curr != nil; curr = curr.prev {
		curr.prev, curr.next = curr.next, curr.prev
	}
	l.first, l.last = l.last, l.first
}

// AddAllFirst inserts all payloads of src at the head of l, keeping
// their order. src is left untouched and may be l itself.
func (l *LinkedList[T]) AddAllFirst(src *LinkedList[T]) {
	src.check()
	values := src.Values()
	for i := len(values) - 1; i >= 0; i-- {
		l.AddFirst(values[i])
	}
}

// AddAllLast appends all payloads of src, keeping their order.
func (l *LinkedList[T]) AddAllLast(src *LinkedList[T]) {
	src.check()
	for _, data := range src.Values() {
		l.AddLast(data)
	}
}

// AddAllMiddle inserts all payloads of src so that the first one ends up
// at index.
func (l *LinkedList[T]) AddAllMiddle(src *LinkedList[T], index int) error {
	src.check()
	if index < 0 || index > l.Size() {
		return ErrOutOfRange
	}
	values := src.Values()
	for i := len(values) - 1; i >= 0; i-- {
		// index is in range and l only grows
		_ = l.AddMiddle(values[i], index)
	}
	return nil
}

// AddAllSorted inserts all payloads of src with AddSorted.
func (l *LinkedList[T]) AddAllSorted(src *LinkedList[T], isSmaller func(a, b T) bool) {
	src.check()
	for _, data := range src.Values() {
		l.AddSorted(data, isSmaller)
	}
}

// Merge moves all elements of other to the tail of l in O(1).
// other is consumed and must not be used afterwards. It panics if other
// is l.
func (l *LinkedList[T]) Merge(other *LinkedList[T]) {
	l.check()
	other.check()
	panicIfSelfMerge(l, other)
	if other.first != nil {
		if l.first == nil {
			l.first = other.first
		} else {
			l.last.next = other.first
			other.first.prev = l.last
		}
		l.last = other.last
		l.length += other.length
	}
	other.consume()
}

// MergeSorted merges other into l, both being sorted with isSmaller.
// On ties, elements of l come first. other is consumed and must not be
// used afterwards. It panics if other is l.
func (l *LinkedList[T]) MergeSorted(other *LinkedList[T], isSmaller func(a, b T) bool) {
	l.check()
	other.check()
	panicIfSelfMerge(l, other)
	if l.first == nil || other.first == nil {
		l.Merge(other)
		return
	}
	curr1, curr2 := l.first, other.first
	var head, tail *listNode[T]
	for curr1 != nil && curr2 != nil {
		var n *listNode[T]
		if isSmaller(curr2.data, curr1.data) {
			n, curr2 = curr2, curr2.next
		} else {
			n, curr1 = curr1, curr1.next
		}
		if tail == nil {
			head = n
			n.prev = nil
		} else {
			tail.next = n
			n.prev = tail
		}
		tail = n
	}
	if curr1 == nil {
		tail.next, curr2.prev = curr2, tail
		l.last = other.last
	} else {
		tail.next, curr1.prev = curr1, tail
	}
	l.first = head
	l.length += other.length
	other.consume()
}

func (l *LinkedList[T]) consume() {
	l.first, l.last, l.length = nil, nil, 0
	l.merged = true
}

func panicIfSelfMerge[T comparable](l, other *LinkedList[T]) {
	if l == other {
		panic("lists: LinkedList merged into itself")
	}
}
