// pkg/engine/impulselog.go
package engine

import "github.com/opd-ai/go-physbox/pkg/physics"

// ImpulseRecord is one applied impulse kept for visualization. Lifetime
// counts the remaining steps before the record expires.
type ImpulseRecord struct {
	Point    physics.Vector2D `json:"point"`
	Impulse  physics.Vector2D `json:"impulse"`
	Normal   physics.Vector2D `json:"normal"`
	Lifetime int              `json:"lifetime"`
}

// impulseLog is a bounded FIFO of recent impulses. When full, the oldest
// record is dropped.
type impulseLog struct {
	records  []ImpulseRecord
	capacity int
	lifetime int
}

func newImpulseLog(capacity, lifetime int) *impulseLog {
	if capacity < 0 {
		capacity = 0
	}
	return &impulseLog{
		records:  make([]ImpulseRecord, 0, capacity),
		capacity: capacity,
		lifetime: lifetime,
	}
}

func (l *impulseLog) add(point, impulse, normal physics.Vector2D) {
	if l.capacity == 0 || l.lifetime <= 0 {
		return
	}
	if len(l.records) == l.capacity {
		copy(l.records, l.records[1:])
		l.records = l.records[:len(l.records)-1]
	}
	l.records = append(l.records, ImpulseRecord{
		Point:    point,
		Impulse:  impulse,
		Normal:   normal,
		Lifetime: l.lifetime,
	})
}

// age decrements every lifetime and drops the records that reach zero
func (l *impulseLog) age() {
	kept := l.records[:0]
	for _, r := range l.records {
		r.Lifetime--
		if r.Lifetime > 0 {
			kept = append(kept, r)
		}
	}
	l.records = kept
}

func (l *impulseLog) reset() {
	l.records = l.records[:0]
}

func (l *impulseLog) snapshot() []ImpulseRecord {
	out := make([]ImpulseRecord, len(l.records))
	copy(out, l.records)
	return out
}
