package live

import (
	"bytes"
	"testing"

	"github.com/recera/vantage/pkg/viewport"
)

func TestEventRoundTrip(t *testing.T) {
	cases := []viewport.Event{
		{Kind: viewport.PointerDown, X: 120.5, Y: -3, Button: viewport.ButtonPrimary},
		{Kind: viewport.PointerMove, X: 0, Y: 0},
		{Kind: viewport.PointerUp, Button: viewport.ButtonAuxiliary},
		{Kind: viewport.Wheel, X: 33, Y: 44, DeltaY: -120},
		{Kind: viewport.TouchStart, Touches: []viewport.Touch{{X: 10, Y: 20}, {X: 30, Y: 40}}},
		{Kind: viewport.TouchMove, Touches: []viewport.Touch{{X: 1.5, Y: 2.5}}},
		{Kind: viewport.TouchEnd},
		{Kind: viewport.KeyDown, Key: "ArrowLeft"},
		{Kind: viewport.KeyDown, Key: "+"},
	}

	for _, want := range cases {
		got, err := DecodeEvent(EncodeEvent(want))
		if err != nil {
			t.Fatalf("%v: decode: %v", want.Kind, err)
		}
		if got.Kind != want.Kind || got.X != want.X || got.Y != want.Y ||
			got.Button != want.Button || got.DeltaY != want.DeltaY || got.Key != want.Key {
			t.Errorf("round trip %+v -> %+v", want, got)
		}
		if len(got.Touches) != len(want.Touches) {
			t.Fatalf("%v: touches %d -> %d", want.Kind, len(want.Touches), len(got.Touches))
		}
		for i := range want.Touches {
			if got.Touches[i] != want.Touches[i] {
				t.Errorf("%v: touch %d = %v, want %v", want.Kind, i, got.Touches[i], want.Touches[i])
			}
		}
	}
}

func TestTransformRoundTrip(t *testing.T) {
	want := viewport.Transform{X: -512.25, Y: 1024.75, Scale: 0.1}
	got, err := DecodeTransform(EncodeTransform(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("round trip %v -> %v", want, got)
	}
}

func TestControlRoundTrip(t *testing.T) {
	want := Control{Type: ControlResize, Width: 1280, Height: 720}
	data, err := EncodeControl(want)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeControl(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Errorf("round trip %+v -> %+v", want, got)
	}
}

func TestDecodeRejectsWrongFrameType(t *testing.T) {
	if _, err := DecodeEvent(EncodeTransform(viewport.Identity())); err == nil {
		t.Error("DecodeEvent accepted a transform frame")
	}
	if _, err := DecodeTransform(EncodeEvent(viewport.Event{})); err == nil {
		t.Error("DecodeTransform accepted an event frame")
	}
	if _, err := DecodeControl(EncodeEvent(viewport.Event{})); err == nil {
		t.Error("DecodeControl accepted an event frame")
	}
	if _, err := DecodeEvent(nil); err == nil {
		t.Error("DecodeEvent accepted empty input")
	}
}

// hostileEventFrame builds a frame with a valid header and an arbitrary
// trailer, for feeding the decoder claimed lengths the payload cannot
// back.
func hostileEventFrame(trailer func(*Encoder)) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteByte(byte(FrameEvent))
	enc.WriteByte(byte(viewport.TouchStart))
	enc.WriteByte(byte(viewport.ButtonNone))
	enc.WriteFloat(0)
	enc.WriteFloat(0)
	enc.WriteFloat(0)
	trailer(enc)
	return buf.Bytes()
}

func TestDecodeRejectsOversizedTouchCount(t *testing.T) {
	counts := []uint64{1 << 32, 1<<64 - 1, 3}
	for _, count := range counts {
		data := hostileEventFrame(func(enc *Encoder) {
			enc.WriteUvarint(count) // no touch data follows
		})
		if _, err := DecodeEvent(data); err == nil {
			t.Errorf("touch count %d with empty payload decoded without error", count)
		}
	}
}

func TestDecodeRejectsOversizedKeyLength(t *testing.T) {
	data := hostileEventFrame(func(enc *Encoder) {
		enc.WriteUvarint(0)       // no touches
		enc.WriteUvarint(1 << 40) // key length with no bytes behind it
	})
	if _, err := DecodeEvent(data); err == nil {
		t.Error("oversized key length decoded without error")
	}
}

func TestDecodeTruncatedEvent(t *testing.T) {
	data := EncodeEvent(viewport.Event{Kind: viewport.Wheel, X: 1, Y: 2, DeltaY: 3})
	for cut := 1; cut < len(data); cut++ {
		if _, err := DecodeEvent(data[:cut]); err == nil {
			t.Errorf("truncation at %d decoded without error", cut)
		}
	}
}
