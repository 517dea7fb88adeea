package live

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/recera/vantage/pkg/viewport"
)

// touchWireSize is the encoded size of one touch point: two float64s.
const touchWireSize = 16

// Encoder writes the wire primitives of the live protocol: uvarints,
// length-prefixed strings, and fixed 8-byte little-endian floats.
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new encoder.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// WriteByte writes a single byte.
func (e *Encoder) WriteByte(b byte) error {
	_, err := e.w.Write([]byte{b})
	return err
}

// WriteUvarint writes an unsigned varint.
func (e *Encoder) WriteUvarint(v uint64) error {
	buf := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	_, err := e.w.Write(buf[:n])
	return err
}

// WriteString writes a length-prefixed string.
func (e *Encoder) WriteString(s string) error {
	if err := e.WriteUvarint(uint64(len(s))); err != nil {
		return err
	}
	_, err := e.w.Write([]byte(s))
	return err
}

// WriteFloat writes a float64 as 8 little-endian bytes.
func (e *Encoder) WriteFloat(f float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
	_, err := e.w.Write(buf[:])
	return err
}

// Decoder reads the wire primitives of the live protocol.
type Decoder struct {
	r io.Reader
}

// NewDecoder creates a new decoder.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// ReadByte implements io.ByteReader.
func (d *Decoder) ReadByte() (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(d.r, b[:])
	return b[0], err
}

// ReadUvarint reads an unsigned varint.
func (d *Decoder) ReadUvarint() (uint64, error) {
	return binary.ReadUvarint(d)
}

// ReadString reads a length-prefixed string. The length is checked
// against the remaining input before allocating; frames arrive off the
// network and a claimed length is not to be trusted.
func (d *Decoder) ReadString() (string, error) {
	length, err := d.ReadUvarint()
	if err != nil {
		return "", err
	}
	if remaining, ok := d.remaining(); ok && length > uint64(remaining) {
		return "", fmt.Errorf("live: string length %d exceeds %d remaining bytes", length, remaining)
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// remaining reports how many input bytes are left, when the underlying
// reader can tell (bytes.Reader can; an arbitrary stream cannot).
func (d *Decoder) remaining() (int, bool) {
	r, ok := d.r.(interface{ Len() int })
	if !ok {
		return 0, false
	}
	return r.Len(), true
}

// ReadFloat reads a float64 from 8 little-endian bytes.
func (d *Decoder) ReadFloat() (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// EncodeEvent encodes an input event as a FrameEvent frame.
func EncodeEvent(ev viewport.Event) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteByte(byte(FrameEvent))
	enc.WriteByte(byte(ev.Kind))
	enc.WriteByte(byte(ev.Button))
	enc.WriteFloat(ev.X)
	enc.WriteFloat(ev.Y)
	enc.WriteFloat(ev.DeltaY)
	enc.WriteUvarint(uint64(len(ev.Touches)))
	for _, t := range ev.Touches {
		enc.WriteFloat(t.X)
		enc.WriteFloat(t.Y)
	}
	enc.WriteString(ev.Key)
	return buf.Bytes()
}

// DecodeEvent decodes a FrameEvent frame.
func DecodeEvent(data []byte) (viewport.Event, error) {
	var ev viewport.Event
	if len(data) < 1 || MessageType(data[0]) != FrameEvent {
		return ev, errors.New("live: not an event frame")
	}
	dec := NewDecoder(bytes.NewReader(data[1:]))
	kind, err := dec.ReadByte()
	if err != nil {
		return ev, fmt.Errorf("live: decode event kind: %w", err)
	}
	button, err := dec.ReadByte()
	if err != nil {
		return ev, fmt.Errorf("live: decode event button: %w", err)
	}
	ev.Kind = viewport.EventKind(kind)
	ev.Button = viewport.Button(button)
	if ev.X, err = dec.ReadFloat(); err != nil {
		return ev, fmt.Errorf("live: decode event x: %w", err)
	}
	if ev.Y, err = dec.ReadFloat(); err != nil {
		return ev, fmt.Errorf("live: decode event y: %w", err)
	}
	if ev.DeltaY, err = dec.ReadFloat(); err != nil {
		return ev, fmt.Errorf("live: decode event deltaY: %w", err)
	}
	count, err := dec.ReadUvarint()
	if err != nil {
		return ev, fmt.Errorf("live: decode touch count: %w", err)
	}
	// 16 bytes per touch: the count bounds the allocation, so verify the
	// frame can actually hold that many before trusting it.
	if remaining, ok := dec.remaining(); ok && count > uint64(remaining)/touchWireSize {
		return ev, fmt.Errorf("live: touch count %d exceeds %d remaining bytes", count, remaining)
	}
	if count > 0 {
		ev.Touches = make([]viewport.Touch, count)
		for i := range ev.Touches {
			if ev.Touches[i].X, err = dec.ReadFloat(); err != nil {
				return ev, fmt.Errorf("live: decode touch %d: %w", i, err)
			}
			if ev.Touches[i].Y, err = dec.ReadFloat(); err != nil {
				return ev, fmt.Errorf("live: decode touch %d: %w", i, err)
			}
		}
	}
	if ev.Key, err = dec.ReadString(); err != nil {
		return ev, fmt.Errorf("live: decode event key: %w", err)
	}
	return ev, nil
}

// EncodeTransform encodes an applied transform as a FrameTransform frame.
func EncodeTransform(tf viewport.Transform) []byte {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.WriteByte(byte(FrameTransform))
	enc.WriteFloat(tf.X)
	enc.WriteFloat(tf.Y)
	enc.WriteFloat(tf.Scale)
	return buf.Bytes()
}

// DecodeTransform decodes a FrameTransform frame.
func DecodeTransform(data []byte) (viewport.Transform, error) {
	var tf viewport.Transform
	if len(data) < 1 || MessageType(data[0]) != FrameTransform {
		return tf, errors.New("live: not a transform frame")
	}
	dec := NewDecoder(bytes.NewReader(data[1:]))
	var err error
	if tf.X, err = dec.ReadFloat(); err != nil {
		return tf, fmt.Errorf("live: decode transform x: %w", err)
	}
	if tf.Y, err = dec.ReadFloat(); err != nil {
		return tf, fmt.Errorf("live: decode transform y: %w", err)
	}
	if tf.Scale, err = dec.ReadFloat(); err != nil {
		return tf, fmt.Errorf("live: decode transform scale: %w", err)
	}
	return tf, nil
}

// EncodeControl encodes a control message as a FrameControl frame with a
// JSON body.
func EncodeControl(ctl Control) ([]byte, error) {
	body, err := json.Marshal(ctl)
	if err != nil {
		return nil, fmt.Errorf("live: encode control: %w", err)
	}
	return append([]byte{byte(FrameControl)}, body...), nil
}

// DecodeControl decodes a FrameControl frame.
func DecodeControl(data []byte) (Control, error) {
	var ctl Control
	if len(data) < 1 || MessageType(data[0]) != FrameControl {
		return ctl, errors.New("live: not a control frame")
	}
	if err := json.Unmarshal(data[1:], &ctl); err != nil {
		return ctl, fmt.Errorf("live: decode control: %w", err)
	}
	return ctl, nil
}
