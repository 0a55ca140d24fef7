package display

import "sync"

// Queue is an unbounded FIFO Sink. AppendLine never blocks; a single pump
// goroutine hands lines to deliver in the order they were appended.
type Queue struct {
	deliver func(string)

	mu      sync.Mutex
	pending []string
	closed  bool
	wake    chan struct{}
	done    chan struct{}
}

// NewQueue starts the pump. deliver runs on the pump goroutine only.
func NewQueue(deliver func(string)) *Queue {
	q := &Queue{
		deliver: deliver,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go q.pump()
	return q
}

// AppendLine enqueues text. Lines appended after Close are dropped.
func (q *Queue) AppendLine(text string) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.pending = append(q.pending, text)
	q.mu.Unlock()
	q.signal()
}

// Len reports lines not yet handed to deliver.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Close stops accepting lines, delivers what is pending and waits for the
// pump to exit. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	<-q.done
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) pump() {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, line := range batch {
			q.deliver(line)
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}
