package dis

// Size returns the encoded size of r in bytes.
func Size(r Record) int {
	var s sizer
	r.walk(&s)
	return s.n
}

type sizer struct {
	n int
}

func (s *sizer) u8(string, *uint8) { s.n++ }
func (s *sizer) u16(string, *uint16) { s.n += 2 }
func (s *sizer) u32(string, *uint32) { s.n += 4 }
func (s *sizer) u64(string, *uint64) { s.n += 8 }
func (s *sizer) i8(string, *int8) { s.n++ }
func (s *sizer) i16(string, *int16) { s.n += 2 }
func (s *sizer) i32(string, *int32) { s.n += 4 }
func (s *sizer) i64(string, *int64) { s.n += 8 }
func (s *sizer) f32(string, *float32) { s.n += 4 }
func (s *sizer) f64(string, *float64) { s.n += 8 }
func (s *sizer) octets(_ string, v []byte) { s.n += len(v) }
func (s *sizer) record(_ string, r Record) { r.walk(s) }
func (s *sizer) count(_ string, width int, _ *int) { s.n += width }
func (s *sizer) blob(_ string, _ int, v *[]byte) { s.n += len(*v) }
func (s *sizer) pad(_ string, n int) { s.n += n }
func (s *sizer) pduLength(string) { s.n += 2 }
func (s *sizer) bitLength(string, *uint16, []byte) { s.n += 2 }

func (s *sizer) list(_ string, _ int, seq sequence) {
	for i := 0; i < seq.len(); i++ {
		seq.at(i).walk(s)
	}
}
