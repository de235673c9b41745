package dis

import (
	"errors"
	"fmt"
	"sort"

	"example.com/disgate/internal/ebv"
)

var factories = map[ebv.PDUType]func() PDU{
	ebv.PDUTypeEntityState:             func() PDU { return NewEntityStatePdu() },
	ebv.PDUTypeFire:                    func() PDU { return NewFirePdu() },
	ebv.PDUTypeDetonation:              func() PDU { return NewDetonationPdu() },
	ebv.PDUTypeCollision:               func() PDU { return NewCollisionPdu() },
	ebv.PDUTypeCreateEntity:            func() PDU { return NewCreateEntityPdu() },
	ebv.PDUTypeRemoveEntity:            func() PDU { return NewRemoveEntityPdu() },
	ebv.PDUTypeStartResume:             func() PDU { return NewStartResumePdu() },
	ebv.PDUTypeStopFreeze:              func() PDU { return NewStopFreezePdu() },
	ebv.PDUTypeAcknowledge:             func() PDU { return NewAcknowledgePdu() },
	ebv.PDUTypeActionRequest:           func() PDU { return NewActionRequestPdu() },
	ebv.PDUTypeActionResponse:          func() PDU { return NewActionResponsePdu() },
	ebv.PDUTypeDataQuery:               func() PDU { return NewDataQueryPdu() },
	ebv.PDUTypeSetData:                 func() PDU { return NewSetDataPdu() },
	ebv.PDUTypeData:                    func() PDU { return NewDataPdu() },
	ebv.PDUTypeEventReport:             func() PDU { return NewEventReportPdu() },
	ebv.PDUTypeComment:                 func() PDU { return NewCommentPdu() },
	ebv.PDUTypeElectromagneticEmission: func() PDU { return NewElectromagneticEmissionPdu() },
	ebv.PDUTypeTransmitter:             func() PDU { return NewTransmitterPdu() },
	ebv.PDUTypeSignal:                  func() PDU { return NewSignalPdu() },
	ebv.PDUTypeReceiver:                func() PDU { return NewReceiverPdu() },
	ebv.PDUTypeIntercomSignal:          func() PDU { return NewIntercomSignalPdu() },
	ebv.PDUTypeEntityStateUpdate:       func() PDU { return NewEntityStateUpdatePdu() },
}

// NewPDU returns an empty PDU of type t with its header defaults set.
func NewPDU(t ebv.PDUType) (PDU, error) {
	f, ok := factories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %d (%v)", ErrUnsupportedPDU, uint8(t), t)
	}
	return f(), nil
}

// Supported lists the PDU types with a binding, in ascending order.
func Supported() []ebv.PDUType {
	out := make([]ebv.PDUType, 0, len(factories))
	for t := range factories {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func IsSupported(t ebv.PDUType) bool {
	_, ok := factories[t]
	return ok
}

// Frame is a decoded PDU header together with its declared length.
type Frame struct {
	Header Header
	Length int
}

// PeekHeader decodes the header at the start of data without consuming the
// body.
func PeekHeader(data []byte) (Frame, error) {
	var h Header
	d := &decoder{data: data, name: "Header", declared: -1}
	h.walk(d)
	if d.err != nil {
		return Frame{}, d.err
	}
	return Frame{Header: h, Length: d.declared}, nil
}

// DecodePDU decodes the PDU at the start of data, framed by the header
// length. It returns the PDU and the number of bytes it occupied.
func DecodePDU(data []byte) (PDU, int, error) {
	fr, err := PeekHeader(data)
	if err != nil {
		return nil, 0, err
	}
	if fr.Length < HeaderSize {
		return nil, 0, fmt.Errorf("%w: header declares %d bytes", ErrLengthMismatch, fr.Length)
	}
	if fr.Length > len(data) {
		return nil, 0, fmt.Errorf("%w: header declares %d bytes, %d available", ErrTruncated, fr.Length, len(data))
	}
	p, err := NewPDU(fr.Header.PDUType)
	if err != nil {
		return nil, 0, err
	}
	if err := Unmarshal(data[:fr.Length], p); err != nil {
		if errors.Is(err, ErrTruncated) || errors.Is(err, ErrTrailingData) {
			return nil, 0, fmt.Errorf("%w: header declares %d bytes: %v", ErrLengthMismatch, fr.Length, err)
		}
		return nil, 0, err
	}
	return p, fr.Length, nil
}

// DecodeContent decodes the PDU at the start of data without holding it to
// the header length. It returns the PDU and the number of bytes its fields
// occupy, which is the canonical length for that content.
func DecodeContent(data []byte) (PDU, int, error) {
	fr, err := PeekHeader(data)
	if err != nil {
		return nil, 0, err
	}
	p, err := NewPDU(fr.Header.PDUType)
	if err != nil {
		return nil, 0, err
	}
	n, err := decodeInto(data, p, false)
	if err != nil {
		return nil, 0, err
	}
	return p, n, nil
}
