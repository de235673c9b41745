package dis

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Unmarshal decodes data into r, which must be a non-nil pointer to a record.
// The whole of data must be consumed. On failure r is left untouched.
func Unmarshal(data []byte, r Record) error {
	_, err := decodeInto(data, r, true)
	return err
}

// decodeInto walks r over data. Strict decoding also requires the header
// length and the input length to match the bytes consumed.
func decodeInto(data []byte, r Record, strict bool) (int, error) {
	rv := reflect.ValueOf(r)
	if r == nil || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return 0, errors.New("unmarshal target must be a non-nil record pointer")
	}
	fresh := reflect.New(rv.Elem().Type())
	d := &decoder{data: data, name: typeName(r), declared: -1}
	fresh.Interface().(Record).walk(d)
	if d.err != nil {
		return 0, d.err
	}
	if p, ok := fresh.Interface().(PDU); ok {
		if got, want := p.PDUHeader().PDUType, p.Kind(); got != want {
			return 0, fmt.Errorf("decode %s: %w: header says %v, record is %v", d.name, ErrHeaderMismatch, got, want)
		}
	}
	if strict {
		if d.declared >= 0 && d.declared != d.off {
			return 0, fmt.Errorf("decode %s: %w: header declares %d bytes, content is %d", d.name, ErrLengthMismatch, d.declared, d.off)
		}
		if d.off != len(data) {
			return 0, fmt.Errorf("decode %s: %w: %d of %d bytes used", d.name, ErrTrailingData, d.off, len(data))
		}
	}
	rv.Elem().Set(fresh.Elem())
	return d.off, nil
}

type decoder struct {
	data     []byte
	off      int
	name     string
	path     path
	declared int
	err      error
}

func (d *decoder) take(tag string, n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || len(d.data)-d.off < n {
		d.err = &FieldError{Op: "decode", Record: d.name, Field: d.path.with(tag), Offset: d.off, Err: ErrTruncated}
		return nil
	}
	b := d.data[d.off : d.off+n : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8(tag string, v *uint8) {
	if b := d.take(tag, 1); b != nil {
		*v = b[0]
	}
}

func (d *decoder) u16(tag string, v *uint16) {
	if b := d.take(tag, 2); b != nil {
		*v = binary.BigEndian.Uint16(b)
	}
}

func (d *decoder) u32(tag string, v *uint32) {
	if b := d.take(tag, 4); b != nil {
		*v = binary.BigEndian.Uint32(b)
	}
}

func (d *decoder) u64(tag string, v *uint64) {
	if b := d.take(tag, 8); b != nil {
		*v = binary.BigEndian.Uint64(b)
	}
}

func (d *decoder) i8(tag string, v *int8) {
	var u uint8
	d.u8(tag, &u)
	*v = int8(u)
}

func (d *decoder) i16(tag string, v *int16) {
	var u uint16
	d.u16(tag, &u)
	*v = int16(u)
}

func (d *decoder) i32(tag string, v *int32) {
	var u uint32
	d.u32(tag, &u)
	*v = int32(u)
}

func (d *decoder) i64(tag string, v *int64) {
	var u uint64
	d.u64(tag, &u)
	*v = int64(u)
}

func (d *decoder) f32(tag string, v *float32) {
	var u uint32
	d.u32(tag, &u)
	*v = math.Float32frombits(u)
}

func (d *decoder) f64(tag string, v *float64) {
	var u uint64
	d.u64(tag, &u)
	*v = math.Float64frombits(u)
}

func (d *decoder) octets(tag string, v []byte) {
	if b := d.take(tag, len(v)); b != nil {
		copy(v, b)
	}
}

func (d *decoder) record(tag string, r Record) {
	d.path = append(d.path, tag)
	r.walk(d)
	d.path = d.path[:len(d.path)-1]
}

func (d *decoder) count(tag string, width int, n *int) {
	b := d.take(tag, width)
	if b == nil {
		return
	}
	switch width {
	case 1:
		*n = int(b[0])
	case 2:
		*n = int(binary.BigEndian.Uint16(b))
	case 4:
		*n = int(binary.BigEndian.Uint32(b))
	default:
		panic(fmt.Sprintf("dis: unsupported count width %d", width))
	}
}

func (d *decoder) blob(tag string, n int, v *[]byte) {
	b := d.take(tag, n)
	if b == nil || n == 0 {
		*v = nil
		return
	}
	*v = append([]byte(nil), b...)
}

func (d *decoder) pad(tag string, n int) {
	d.take(tag, n)
}

func (d *decoder) list(tag string, n int, s sequence) {
	if d.err != nil {
		return
	}
	// A count the remaining input cannot hold fails before allocating.
	if least := s.minSize(); least > 0 && n > (len(d.data)-d.off)/least {
		d.err = &FieldError{
			Op:     "decode",
			Record: d.name,
			Field:  d.path.with(tag),
			Offset: d.off,
			Err:    fmt.Errorf("%w: %d elements of at least %d bytes", ErrTruncated, n, least),
		}
		return
	}
	s.resize(n)
	for i := 0; i < n && d.err == nil; i++ {
		d.record(fmt.Sprintf("%s[%d]", tag, i), s.at(i))
	}
}

func (d *decoder) pduLength(tag string) {
	var v uint16
	d.u16(tag, &v)
	if d.err == nil {
		d.declared = int(v)
	}
}

func (d *decoder) bitLength(tag string, bits *uint16, _ []byte) {
	d.u16(tag, bits)
}
