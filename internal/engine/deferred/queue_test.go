package deferred

import "testing"

func entryFor(fqn string) Entry {
	return Entry{
		DiagramType: "class",
		EntityFQN:   fqn,
		Payload: Payload{
			Type:            PayloadDefinitionCheck,
			DefinitionCheck: &DefinitionCheck{Target: fqn, SpecFile: "docs/a.md", SpecLine: 3},
		},
	}
}

func TestDrainIsFIFOAndOneShot(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entryFor("pkg.A"))
	q.Enqueue(entryFor("pkg.B"))

	if q.Count() != 2 {
		t.Fatalf("count = %d, want 2", q.Count())
	}

	entries := q.Drain()
	if len(entries) != 2 || entries[0].EntityFQN != "pkg.A" || entries[1].EntityFQN != "pkg.B" {
		t.Fatalf("drain order = %+v", entries)
	}

	if q.Count() != 0 {
		t.Error("queue must be empty after drain")
	}
	if second := q.Drain(); len(second) != 0 {
		t.Errorf("second drain = %+v, want empty", second)
	}
}

func TestClear(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entryFor("pkg.A"))
	q.Clear()
	if q.Count() != 0 {
		t.Error("clear must empty the queue")
	}
}
