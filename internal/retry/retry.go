// Package retry tracks per-item retry budgets.
package retry

import "sync"

// Ledger counts remaining retry attempts per item. Entries are created
// lazily on an item's first failure with the configured budget and removed
// once the item reaches a terminal state. An entry's count never increases
// and never goes below zero.
type Ledger struct {
	mu        sync.Mutex
	budget    int
	remaining map[string]int
}

// NewLedger creates a ledger with the given per-item retry budget. A budget
// below zero is treated as zero.
func NewLedger(budget int) *Ledger {
	if budget < 0 {
		budget = 0
	}
	return &Ledger{
		budget:    budget,
		remaining: make(map[string]int),
	}
}

// Allow records a failure of the given item and reports whether another
// attempt may be dispatched, consuming one attempt if so. Once an item's
// budget is exhausted Allow keeps returning false for it.
func (l *Ledger) Allow(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.remaining[id]
	if !ok {
		n = l.budget
	}
	if n == 0 {
		l.remaining[id] = 0
		return false
	}
	l.remaining[id] = n - 1
	return true
}

// Remaining returns the item's remaining attempts. Items that never failed
// report the full budget.
func (l *Ledger) Remaining(id string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n, ok := l.remaining[id]; ok {
		return n
	}
	return l.budget
}

// Forget removes the item's entry. Called when the item reaches a terminal
// state; the entry is never resurrected by the caller.
func (l *Ledger) Forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.remaining, id)
}
