package cpu

import (
	"iter"
	"maps"
	"slices"
)

// StepRecord is a snapshot of one executed instruction.
//
// Regs and Mem are taken before the instruction executed; Sreg and Sp
// after it. Mem holds only non-zero RAM bytes. Records are never modified
// once appended to a Trace, and callers must treat Mem as read-only.
type StepRecord struct {
	Step   int           // Step counter, starting at 1.
	Pc     int           // Program counter of the executed instruction.
	Text   string        // Rendered instruction and operands.
	Regs   [32]uint8     // Registers before execution.
	Mem    map[int]uint8 // Non-zero RAM before execution.
	Sreg   uint8         // SREG after execution.
	Sp     int           // Stack pointer after execution.
	LineNo int           // Source line number, or 0 if unknown.
}

// RegEvent is a register change.
type RegEvent struct {
	Step  int
	Reg   int
	Value int
}

// MemEvent is a RAM write.
type MemEvent struct {
	Step  int
	Addr  int
	Value int
}

// Trace is the append-only history of executed instructions.
//
// With a positive Limit, only the most recent Limit records are kept.
type Trace struct {
	Limit int // Maximum retained records, zero for unbounded.

	records []StepRecord
	start   int
	dropped int
}

// Len returns the number of retained records.
func (tr *Trace) Len() int {
	return len(tr.records)
}

// Dropped returns the number of records discarded by the retention limit.
func (tr *Trace) Dropped() int {
	return tr.dropped
}

// At returns the n'th oldest retained record.
func (tr *Trace) At(n int) (rec StepRecord, ok bool) {
	if n < 0 || n >= len(tr.records) {
		return
	}

	rec = tr.records[(tr.start+n)%len(tr.records)]
	ok = true
	return
}

// Last returns the most recent record.
func (tr *Trace) Last() (rec StepRecord, ok bool) {
	return tr.At(len(tr.records) - 1)
}

// All iterates over the retained records, oldest first.
func (tr *Trace) All() iter.Seq2[int, StepRecord] {
	return func(yield func(n int, rec StepRecord) bool) {
		for n := range len(tr.records) {
			rec, _ := tr.At(n)
			if !yield(n, rec) {
				return
			}
		}
	}
}

// Records returns a copy of the retained records, oldest first.
func (tr *Trace) Records() (recs []StepRecord) {
	recs = make([]StepRecord, 0, len(tr.records))
	for _, rec := range tr.All() {
		rec.Mem = maps.Clone(rec.Mem)
		recs = append(recs, rec)
	}
	return
}

// append adds a record, evicting the oldest when over the limit.
func (tr *Trace) append(rec StepRecord) {
	if tr.Limit <= 0 || len(tr.records) < tr.Limit {
		if tr.start != 0 {
			// Limit was raised after wrapping; unroll first.
			tr.records = slices.Concat(tr.records[tr.start:], tr.records[:tr.start])
			tr.start = 0
		}
		tr.records = append(tr.records, rec)
		return
	}

	if len(tr.records) > tr.Limit {
		// Limit was lowered; keep only the newest.
		recs := tr.Records()
		excess := len(recs) - tr.Limit
		tr.dropped += excess
		tr.records = recs[excess:]
		tr.start = 0
	}

	tr.records[tr.start] = rec
	tr.start = (tr.start + 1) % len(tr.records)
	tr.dropped++
}
