package core

// tickBefore reports whether a comes before b on the circular tick space
func tickBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// tickReached reports whether now is at or past deadline
func tickReached(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}

// timerQueue is the pending list of one hardware timer, ordered by expiry.
// Timers are linked through their own next/prev fields.
type timerQueue struct {
	head *Timer
	tail *Timer
}

func (q *timerQueue) first() *Timer {
	return q.head
}

func (q *timerQueue) empty() bool {
	return q.head == nil
}

func (q *timerQueue) len() int {
	n := 0
	for e := q.head; e != nil; e = e.next {
		n++
	}
	return n
}

// insert links t before the first entry that expires strictly later, so
// timers with the same expiry keep the order they were started in
func (q *timerQueue) insert(t *Timer) {
	var entry *Timer
	for entry = q.head; entry != nil; entry = entry.next {
		if tickBefore(t.expiry, entry.expiry) {
			break
		}
	}

	if entry == nil {
		t.prev = q.tail
		t.next = nil
		if q.tail != nil {
			q.tail.next = t
		} else {
			q.head = t
		}
		q.tail = t
	} else {
		t.next = entry
		t.prev = entry.prev
		if entry.prev != nil {
			entry.prev.next = t
		} else {
			q.head = t
		}
		entry.prev = t
	}
	t.queued = true
}

// remove unlinks t, which must be queued on q
func (q *timerQueue) remove(t *Timer) {
	if t.prev != nil {
		t.prev.next = t.next
	} else {
		q.head = t.next
	}
	if t.next != nil {
		t.next.prev = t.prev
	} else {
		q.tail = t.prev
	}
	t.next = nil
	t.prev = nil
	t.queued = false
}
