package batches

import "sync"

// batchLocks serialises read-modify-write cycles on the same batch so a task
// toggle cannot write back a task list that a concurrent edit just replaced.
type batchLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *batchLocks) lock(id string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (l *batchLocks) forget(id string) {
	l.mu.Lock()
	delete(l.locks, id)
	l.mu.Unlock()
}
