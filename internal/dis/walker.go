package dis

import (
	"reflect"
	"strings"
)

// Record is implemented by every PDU and sub-record type in this package.
// walk visits the fields in wire order; every codec operation is a walker.
type Record interface {
	walk(w walker)
}

type walker interface {
	u8(tag string, v *uint8)
	u16(tag string, v *uint16)
	u32(tag string, v *uint32)
	u64(tag string, v *uint64)
	i8(tag string, v *int8)
	i16(tag string, v *int16)
	i32(tag string, v *int32)
	i64(tag string, v *int64)
	f32(tag string, v *float32)
	f64(tag string, v *float64)
	// octets is a fixed-size byte array.
	octets(tag string, v []byte)
	record(tag string, r Record)
	// count is a list or blob length of width bytes. Encoders write *n,
	// decoders store the wire value in *n. It never takes part in equality.
	count(tag string, width int, n *int)
	// blob is a byte string. Decoders read n bytes; everything else uses len(*v).
	blob(tag string, n int, v *[]byte)
	pad(tag string, n int)
	// list decodes n elements into s; everything else uses s.len().
	list(tag string, n int, s sequence)
	// pduLength is the header length field, the encoded size of the whole PDU.
	pduLength(tag string)
	// bitLength is a data length in bits where zero stands for all bits of data.
	bitLength(tag string, bits *uint16, data []byte)
}

type sequence interface {
	len() int
	resize(n int)
	at(i int) Record
	elemName() string
	// minSize is the encoded size of a zero element.
	minSize() int
}

type slice[T any, P interface {
	*T
	Record
}] struct {
	s *[]T
}

func listOf[T any, P interface {
	*T
	Record
}](s *[]T) sequence {
	return slice[T, P]{s: s}
}

func (l slice[T, P]) len() int { return len(*l.s) }

func (l slice[T, P]) resize(n int) {
	if n == 0 {
		*l.s = nil
		return
	}
	*l.s = make([]T, n)
}

func (l slice[T, P]) at(i int) Record { return P(&(*l.s)[i]) }

func (l slice[T, P]) elemName() string {
	var zero T
	return reflect.TypeOf(zero).Name()
}

func (l slice[T, P]) minSize() int {
	var zero T
	return Size(P(&zero))
}

func typeName(r Record) string {
	t := reflect.TypeOf(r)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

// path tracks the dotted field path for error messages.
type path []string

func (p path) with(tag string) string {
	if len(p) == 0 {
		return tag
	}
	return strings.Join(p, ".") + "." + tag
}

func effectiveBits(bits uint16, data []byte) int {
	if bits == 0 {
		return len(data) * 8
	}
	return int(bits)
}

func padTo(n, boundary int) int {
	if r := n % boundary; r != 0 {
		return boundary - r
	}
	return 0
}
