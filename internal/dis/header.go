package dis

import "example.com/disgate/internal/ebv"

// HeaderSize is the encoded size of the PDU header.
const HeaderSize = 12

// Header is embedded by value in every PDU. The length field is not stored;
// it is always the encoded size of the PDU.
type Header struct {
	ProtocolVersion ebv.ProtocolVersion
	ExerciseID      uint8
	PDUType         ebv.PDUType
	ProtocolFamily  ebv.ProtocolFamily
	Timestamp       uint32
}

func (h *Header) PDUHeader() *Header { return h }

func (h *Header) walk(w walker) {
	w.u8("protocolVersion", (*uint8)(&h.ProtocolVersion))
	w.u8("exerciseID", &h.ExerciseID)
	w.u8("pduType", (*uint8)(&h.PDUType))
	w.u8("protocolFamily", (*uint8)(&h.ProtocolFamily))
	w.u32("timestamp", &h.Timestamp)
	w.pduLength("length")
	w.pad("padding", 2)
}

// PDU is a record that starts with a Header.
type PDU interface {
	Record
	PDUHeader() *Header
	// Kind is the PDU type the record binds, independent of the header.
	Kind() ebv.PDUType
}

func newHeader(t ebv.PDUType) Header {
	family, _ := t.Family()
	return Header{
		ProtocolVersion: ebv.CurrentProtocolVersion,
		PDUType:         t,
		ProtocolFamily:  family,
	}
}

// WarfareFamily holds the fields shared by the warfare PDUs.
type WarfareFamily struct {
	FiringEntityID EntityID
	TargetEntityID EntityID
}

func (f *WarfareFamily) walk(w walker) {
	w.record("firingEntityID", &f.FiringEntityID)
	w.record("targetEntityID", &f.TargetEntityID)
}

// SimulationManagementFamily holds the fields shared by the simulation
// management PDUs.
type SimulationManagementFamily struct {
	OriginatingEntityID EntityID
	ReceivingEntityID   EntityID
}

func (f *SimulationManagementFamily) walk(w walker) {
	w.record("originatingEntityID", &f.OriginatingEntityID)
	w.record("receivingEntityID", &f.ReceivingEntityID)
}
