package logger

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultRingCapacity = 1000

type Entry struct {
	ID        int64                  `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Caller    string                 `json:"caller,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Ring keeps the most recent service log entries in memory so the console can
// expose them for debugging without shipping logs anywhere.
type Ring struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
	next     int
	count    int
	seq      int64
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = defaultRingCapacity
	}
	return &Ring{
		entries:  make([]Entry, capacity),
		capacity: capacity,
	}
}

// Recent returns up to limit entries, newest first, filtered by level and a
// case-insensitive message keyword when given.
func (r *Ring) Recent(level, keyword string, limit int) []Entry {
	if r == nil {
		return nil
	}
	if limit <= 0 || limit > r.capacity {
		limit = r.capacity
	}

	normalizedLevel := strings.ToLower(strings.TrimSpace(level))
	normalizedKeyword := strings.ToLower(strings.TrimSpace(keyword))

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, 0, limit)
	for i := 0; i < r.count && len(out) < limit; i++ {
		idx := r.next - 1 - i
		if idx < 0 {
			idx += r.capacity
		}
		entry := r.entries[idx]
		if normalizedLevel != "" && !strings.EqualFold(entry.Level, normalizedLevel) {
			continue
		}
		if normalizedKeyword != "" && !strings.Contains(strings.ToLower(entry.Message), normalizedKeyword) {
			continue
		}
		out = append(out, cloneEntry(entry))
	}
	return out
}

func (r *Ring) add(entry zapcore.Entry, fields []zapcore.Field) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.entries[r.next] = Entry{
		ID:        r.seq,
		Timestamp: entry.Time.UTC(),
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Caller:    entry.Caller.TrimmedPath(),
		Fields:    fieldsToMap(fields),
	}
	r.next = (r.next + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	}
}

// WrapZapLogger tees every record written through the returned logger into
// the ring on top of the base core.
func WrapZapLogger(base *zap.Logger, ring *Ring) *zap.Logger {
	if base == nil || ring == nil {
		return base
	}

	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &ringCore{Core: core, ring: ring}
	}))
}

type ringCore struct {
	zapcore.Core
	ring *Ring
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	return &ringCore{Core: c.Core.With(fields), ring: c.ring}
}

func (c *ringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Core.Check(entry, nil) == nil {
		return checked
	}
	return checked.AddCore(entry, c)
}

func (c *ringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.ring.add(entry, fields)
	return c.Core.Write(entry, fields)
}

func cloneEntry(entry Entry) Entry {
	cloned := entry
	if len(entry.Fields) == 0 {
		return cloned
	}
	fields := make(map[string]interface{}, len(entry.Fields))
	for k, v := range entry.Fields {
		fields[k] = v
	}
	cloned.Fields = fields
	return cloned
}

func fieldsToMap(fields []zapcore.Field) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}
	if len(enc.Fields) == 0 {
		return nil
	}

	result := make(map[string]interface{}, len(enc.Fields))
	for k, v := range enc.Fields {
		result[k] = v
	}
	return result
}
