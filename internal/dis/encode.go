package dis

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Marshal encodes r in DIS wire order. Count and length fields are derived
// from the record contents.
func Marshal(r Record) ([]byte, error) {
	if p, ok := r.(PDU); ok {
		if got, want := p.PDUHeader().PDUType, p.Kind(); got != want {
			return nil, fmt.Errorf("%w: header says %v, record is %v", ErrHeaderMismatch, got, want)
		}
	}
	total := Size(r)
	e := &encoder{buf: make([]byte, 0, total), total: total, name: typeName(r)}
	r.walk(e)
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// MarshalTo encodes r and writes it to w.
func MarshalTo(w io.Writer, r Record) (int, error) {
	buf, err := Marshal(r)
	if err != nil {
		return 0, err
	}
	return w.Write(buf)
}

type encoder struct {
	buf   []byte
	total int
	name  string
	path  path
	err   error
}

func (e *encoder) fail(tag string, err error) {
	if e.err == nil {
		e.err = &FieldError{Op: "encode", Record: e.name, Field: e.path.with(tag), Offset: len(e.buf), Err: err}
	}
}

func (e *encoder) u8(_ string, v *uint8) {
	if e.err == nil {
		e.buf = append(e.buf, *v)
	}
}

func (e *encoder) u16(_ string, v *uint16) {
	if e.err == nil {
		e.buf = binary.BigEndian.AppendUint16(e.buf, *v)
	}
}

func (e *encoder) u32(_ string, v *uint32) {
	if e.err == nil {
		e.buf = binary.BigEndian.AppendUint32(e.buf, *v)
	}
}

func (e *encoder) u64(_ string, v *uint64) {
	if e.err == nil {
		e.buf = binary.BigEndian.AppendUint64(e.buf, *v)
	}
}

func (e *encoder) i8(tag string, v *int8) {
	u := uint8(*v)
	e.u8(tag, &u)
}

func (e *encoder) i16(tag string, v *int16) {
	u := uint16(*v)
	e.u16(tag, &u)
}

func (e *encoder) i32(tag string, v *int32) {
	u := uint32(*v)
	e.u32(tag, &u)
}

func (e *encoder) i64(tag string, v *int64) {
	u := uint64(*v)
	e.u64(tag, &u)
}

func (e *encoder) f32(tag string, v *float32) {
	u := math.Float32bits(*v)
	e.u32(tag, &u)
}

func (e *encoder) f64(tag string, v *float64) {
	u := math.Float64bits(*v)
	e.u64(tag, &u)
}

func (e *encoder) octets(_ string, v []byte) {
	if e.err == nil {
		e.buf = append(e.buf, v...)
	}
}

func (e *encoder) record(tag string, r Record) {
	e.path = append(e.path, tag)
	r.walk(e)
	e.path = e.path[:len(e.path)-1]
}

func (e *encoder) count(tag string, width int, n *int) {
	if e.err != nil {
		return
	}
	v := *n
	if v < 0 || uint64(v) > maxForWidth(width) {
		e.fail(tag, fmt.Errorf("%w: %d does not fit in %d bytes", ErrCountOverflow, v, width))
		return
	}
	e.putUint(width, uint64(v))
}

func (e *encoder) blob(_ string, _ int, v *[]byte) {
	if e.err == nil {
		e.buf = append(e.buf, *v...)
	}
}

func (e *encoder) pad(_ string, n int) {
	if e.err == nil {
		for i := 0; i < n; i++ {
			e.buf = append(e.buf, 0)
		}
	}
}

func (e *encoder) list(tag string, _ int, s sequence) {
	for i := 0; i < s.len() && e.err == nil; i++ {
		e.record(fmt.Sprintf("%s[%d]", tag, i), s.at(i))
	}
}

func (e *encoder) pduLength(tag string) {
	if e.err != nil {
		return
	}
	if e.total > math.MaxUint16 {
		e.fail(tag, fmt.Errorf("%w: PDU of %d bytes", ErrCountOverflow, e.total))
		return
	}
	e.putUint(2, uint64(e.total))
}

func (e *encoder) bitLength(tag string, bits *uint16, data []byte) {
	if e.err != nil {
		return
	}
	n := effectiveBits(*bits, data)
	if n > math.MaxUint16 {
		e.fail(tag, fmt.Errorf("%w: %d bits", ErrCountOverflow, n))
		return
	}
	if (n+7)/8 != len(data) {
		e.fail(tag, fmt.Errorf("%w: %d bits for %d data bytes", ErrLengthMismatch, n, len(data)))
		return
	}
	e.putUint(2, uint64(n))
}

func (e *encoder) putUint(width int, v uint64) {
	switch width {
	case 1:
		e.buf = append(e.buf, uint8(v))
	case 2:
		e.buf = binary.BigEndian.AppendUint16(e.buf, uint16(v))
	case 4:
		e.buf = binary.BigEndian.AppendUint32(e.buf, uint32(v))
	default:
		panic(fmt.Sprintf("dis: unsupported count width %d", width))
	}
}

func maxForWidth(width int) uint64 {
	switch width {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	}
	return 0
}
