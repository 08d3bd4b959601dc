package sample

import (
	"bytes"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func mustMarshalMap(t *testing.T, m map[string]interface{}) []byte {
	t.Helper()
	raw, err := msgpack.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal test frame: %v", err)
	}
	return raw
}

func TestDecode_WellFormedFrame(t *testing.T) {
	raw := mustMarshalMap(t, map[string]interface{}{
		"TimestampMs": int64(1700000000000),
		"CpuLoads":    []float64{12.34, 56.78},
	})

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if s.TimestampMs != 1700000000000 {
		t.Errorf("Expected TimestampMs 1700000000000, got %d", s.TimestampMs)
	}
	if len(s.CpuLoads) != 2 {
		t.Fatalf("Expected 2 core loads, got %d", len(s.CpuLoads))
	}
	if s.CpuLoads[0] != 12.34 || s.CpuLoads[1] != 56.78 {
		t.Errorf("Unexpected core loads: %v", s.CpuLoads)
	}
}

func TestDecode_MissingTimestampDefaultsToZero(t *testing.T) {
	raw := mustMarshalMap(t, map[string]interface{}{
		"CpuLoads": []float64{1.0},
	})

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if s.TimestampMs != 0 {
		t.Errorf("Expected default timestamp 0, got %d", s.TimestampMs)
	}
}

func TestDecode_MissingLoadsDefaultsToEmpty(t *testing.T) {
	raw := mustMarshalMap(t, map[string]interface{}{
		"TimestampMs": int64(42),
	})

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if len(s.CpuLoads) != 0 {
		t.Errorf("Expected no core loads, got %v", s.CpuLoads)
	}
}

func TestDecode_MistypedTimestampDefaultsToZero(t *testing.T) {
	raw := mustMarshalMap(t, map[string]interface{}{
		"TimestampMs": "not-a-number",
		"CpuLoads":    []float64{3.5},
	})

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if s.TimestampMs != 0 {
		t.Errorf("Expected default timestamp 0 for mistyped field, got %d", s.TimestampMs)
	}
	if len(s.CpuLoads) != 1 {
		t.Errorf("Expected the loads field to still decode, got %v", s.CpuLoads)
	}
}

func TestDecode_UnknownKeysIgnored(t *testing.T) {
	raw := mustMarshalMap(t, map[string]interface{}{
		"TimestampMs": int64(7),
		"CpuLoads":    []float64{50.0},
		"HostName":    "box-1",
		"MemUsedPct":  88.2,
	})

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if s.TimestampMs != 7 || len(s.CpuLoads) != 1 {
		t.Errorf("Extra keys changed the decoded sample: %+v", s)
	}
}

func TestDecode_NarrowNumericWidths(t *testing.T) {
	// Producers are free to use the narrowest msgpack encoding; int32
	// timestamps and float32 loads must decode the same way.
	raw := mustMarshalMap(t, map[string]interface{}{
		"TimestampMs": int32(1234),
		"CpuLoads":    []interface{}{float32(25.5), int8(3), uint16(100)},
	})

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if s.TimestampMs != 1234 {
		t.Errorf("Expected timestamp 1234, got %d", s.TimestampMs)
	}
	if len(s.CpuLoads) != 3 {
		t.Fatalf("Expected 3 loads, got %v", s.CpuLoads)
	}
	if s.CpuLoads[1] != 3.0 || s.CpuLoads[2] != 100.0 {
		t.Errorf("Integer loads not widened to float64: %v", s.CpuLoads)
	}
}

func TestDecode_MalformedFrame(t *testing.T) {
	if _, err := Decode([]byte{0xc1, 0xff, 0x00, 0x01, 0x02}); err == nil {
		t.Fatal("Expected an error for a malformed frame, got nil")
	}
}

func TestMarshal_RoundTripsThroughDecode(t *testing.T) {
	raw, err := Marshal(&CpuSample{TimestampMs: 99, CpuLoads: []float64{10.5, 20.25}})
	if err != nil {
		t.Fatalf("Marshal() returned an error: %v", err)
	}

	s, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() returned an error: %v", err)
	}
	if s.TimestampMs != 99 || len(s.CpuLoads) != 2 || s.CpuLoads[1] != 20.25 {
		t.Errorf("Round trip produced %+v", s)
	}
}

func TestRender_ExactOutput(t *testing.T) {
	var buf bytes.Buffer
	s := &CpuSample{TimestampMs: 1700000000000, CpuLoads: []float64{12.34, 56.78}}
	s.Render(&buf)

	expected := "[1700000000000] Received CPU data for 2 cores:\n" +
		"  CPU0: 12.3%\n" +
		"  CPU1: 56.8%\n" +
		"\n"
	if buf.String() != expected {
		t.Errorf("Render output mismatch.\nExpected:\n%q\nGot:\n%q", expected, buf.String())
	}
}

func TestRender_NoCores(t *testing.T) {
	var buf bytes.Buffer
	s := &CpuSample{TimestampMs: 5}
	s.Render(&buf)

	expected := "[5] Received CPU data for 0 cores:\n\n"
	if buf.String() != expected {
		t.Errorf("Render output mismatch.\nExpected %q, got %q", expected, buf.String())
	}
}
