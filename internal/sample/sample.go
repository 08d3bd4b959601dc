package sample

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Wire keys recognized in an inbound frame. Anything else is ignored.
const (
	keyTimestamp = "TimestampMs"
	keyCpuLoads  = "CpuLoads"
)

// CpuSample is the decoded representation of one metrics frame. It lives for
// the duration of one frame's processing and is never persisted.
type CpuSample struct {
	TimestampMs int64
	CpuLoads    []float64
}

// Decode unpacks one msgpack frame into a CpuSample. The payload is an
// open-ended map; the two recognized keys are extracted with explicit type
// checks and fall back to zero values when missing or mistyped. This is
// best-effort display, not validation.
func Decode(raw []byte) (*CpuSample, error) {
	var fields map[string]interface{}
	if err := msgpack.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("msgpack unmarshal failed: %w", err)
	}

	s := &CpuSample{}
	if v, ok := fields[keyTimestamp]; ok {
		if ts, ok := asInt64(v); ok {
			s.TimestampMs = ts
		}
	}
	if v, ok := fields[keyCpuLoads]; ok {
		if items, ok := v.([]interface{}); ok {
			s.CpuLoads = make([]float64, 0, len(items))
			for _, item := range items {
				if load, ok := asFloat64(item); ok {
					s.CpuLoads = append(s.CpuLoads, load)
				}
			}
		}
	}
	return s, nil
}

// Marshal encodes a sample as a msgpack map using the wire keys. Used by the
// feed server and by tests to produce frames the decoder accepts.
func Marshal(s *CpuSample) ([]byte, error) {
	return msgpack.Marshal(map[string]interface{}{
		keyTimestamp: s.TimestampMs,
		keyCpuLoads:  s.CpuLoads,
	})
}

// Render writes the human-readable block for one sample: a header with the
// timestamp and core count, one line per core at one decimal place, then a
// blank line.
func (s *CpuSample) Render(w io.Writer) {
	fmt.Fprintf(w, "[%d] Received CPU data for %d cores:\n", s.TimestampMs, len(s.CpuLoads))
	for i, load := range s.CpuLoads {
		fmt.Fprintf(w, "  CPU%d: %.1f%%\n", i, load)
	}
	fmt.Fprintln(w)
}

// asInt64 accepts any integer width msgpack may hand back for the timestamp.
func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	default:
		return 0, false
	}
}

// asFloat64 accepts floats of either width plus integer-valued loads, which
// some producers emit when a core sits at a whole percentage.
func asFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		if i, ok := asInt64(v); ok {
			return float64(i), true
		}
		return 0, false
	}
}
