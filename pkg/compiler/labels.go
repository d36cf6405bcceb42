package compiler

import "fmt"

// LabelAllocator hands out unique branch labels. Every label, whatever its
// base, takes the next number from one counter. Sharing an allocator between
// compilations keeps their labels disjoint; a fresh one restarts at 0.
type LabelAllocator struct {
	next int
}

func NewLabelAllocator() *LabelAllocator {
	return &LabelAllocator{}
}

// New returns base_N and advances the counter.
func (l *LabelAllocator) New(base string) string {
	label := fmt.Sprintf("%s_%d", base, l.next)
	l.next++
	return label
}

// Next is the number the following label will carry.
func (l *LabelAllocator) Next() int {
	return l.next
}

func (l *LabelAllocator) Reset() {
	l.next = 0
}
