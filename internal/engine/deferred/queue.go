// Package deferred holds references seen during per-file processing that
// could not be resolved yet. It exists purely to decouple "a reference was
// seen" from "can it be resolved", since the defining file may not have been
// processed when the reference is encountered.
package deferred

import "sync"

type PayloadType string

const (
	// PayloadDefinitionCheck marks a reference-kind class whose fqn had no
	// registered definition at build time.
	PayloadDefinitionCheck PayloadType = "definition_check"
)

// Payload is a closed tagged union keyed by Type. Exactly the field matching
// Type is set, so the integration validator can match exhaustively.
type Payload struct {
	Type            PayloadType
	DefinitionCheck *DefinitionCheck
}

type DefinitionCheck struct {
	Target   string
	SpecFile string
	SpecLine int
}

type Entry struct {
	DiagramType string
	EntityFQN   string
	Payload     Payload
}

// Queue is a FIFO of deferred entries. Insertion order is preserved across
// files; Drain is a one-shot read that empties the queue.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Enqueue(entry Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry)
}

// Drain returns all entries in insertion order and empties the queue.
func (q *Queue) Drain() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	entries := q.entries
	q.entries = nil
	return entries
}

func (q *Queue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = nil
}
