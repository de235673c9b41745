package dis

import "reflect"

// Equal reports whether a and b are the same record type with equal fields.
// Floats compare by IEEE value, derived counts and padding are ignored and a
// nil list equals an empty one.
func Equal(a, b Record) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	fa, fb := flatten(a), flatten(b)
	if len(fa) != len(fb) {
		return false
	}
	for i := range fa {
		if fa[i] != fb[i] {
			return false
		}
	}
	return true
}

func flatten(r Record) []any {
	f := &flattener{}
	r.walk(f)
	return f.vals
}

type flattener struct {
	vals []any
}

func (f *flattener) u8(_ string, v *uint8) { f.vals = append(f.vals, *v) }
func (f *flattener) u16(_ string, v *uint16) { f.vals = append(f.vals, *v) }
func (f *flattener) u32(_ string, v *uint32) { f.vals = append(f.vals, *v) }
func (f *flattener) u64(_ string, v *uint64) { f.vals = append(f.vals, *v) }
func (f *flattener) i8(_ string, v *int8) { f.vals = append(f.vals, *v) }
func (f *flattener) i16(_ string, v *int16) { f.vals = append(f.vals, *v) }
func (f *flattener) i32(_ string, v *int32) { f.vals = append(f.vals, *v) }
func (f *flattener) i64(_ string, v *int64) { f.vals = append(f.vals, *v) }
func (f *flattener) f32(_ string, v *float32) { f.vals = append(f.vals, *v) }
func (f *flattener) f64(_ string, v *float64) { f.vals = append(f.vals, *v) }
func (f *flattener) octets(_ string, v []byte) { f.vals = append(f.vals, string(v)) }
func (f *flattener) record(_ string, r Record) { r.walk(f) }
func (f *flattener) count(string, int, *int) {}

func (f *flattener) blob(_ string, _ int, v *[]byte) {
	f.vals = append(f.vals, string(*v))
}

func (f *flattener) pad(string, int) {}
func (f *flattener) pduLength(string) {}

func (f *flattener) list(_ string, _ int, s sequence) {
	f.vals = append(f.vals, s.len())
	for i := 0; i < s.len(); i++ {
		s.at(i).walk(f)
	}
}

func (f *flattener) bitLength(_ string, bits *uint16, data []byte) {
	f.vals = append(f.vals, effectiveBits(*bits, data))
}
