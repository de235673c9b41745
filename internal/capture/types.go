package capture

import "example.com/disgate/internal/ebv"

// PDUIndex describes one framed PDU in a capture file.
type PDUIndex struct {
	Offset     int64
	Length     int
	Version    ebv.ProtocolVersion
	ExerciseID uint8
	Type       ebv.PDUType
	Family     ebv.ProtocolFamily
	Timestamp  uint32
	// DecodeError is set when the PDU is framed correctly but its body does
	// not decode. Unsupported types leave it empty and Supported false.
	Supported   bool
	DecodeError string
}

type FileIndex struct {
	PDUs    []PDUIndex
	Resyncs int
}

// Counts returns the number of PDUs seen per PDU type.
func (fi FileIndex) Counts() map[ebv.PDUType]int {
	out := make(map[ebv.PDUType]int)
	for _, p := range fi.PDUs {
		out[p.Type]++
	}
	return out
}
