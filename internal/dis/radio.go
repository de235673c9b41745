package dis

import "example.com/disgate/internal/ebv"

type TransmitterPdu struct {
	Header
	EntityID                   EntityID
	RadioID                    uint16
	RadioEntityType            RadioEntityType
	TransmitState              ebv.TransmitState
	InputSource                ebv.InputSource
	AntennaLocation            Vector3Double
	RelativeAntennaLocation    Vector3Float
	AntennaPatternType         uint16
	Frequency                  uint64
	TransmitFrequencyBandwidth float32
	Power                      float32
	ModulationType             ModulationType
	CryptoSystem               uint16
	CryptoKeyID                uint16
	ModulationParameters       []byte
	AntennaPatternParameters   []byte
}

func NewTransmitterPdu() *TransmitterPdu {
	return &TransmitterPdu{Header: newHeader(ebv.PDUTypeTransmitter)}
}

func (p *TransmitterPdu) Kind() ebv.PDUType { return ebv.PDUTypeTransmitter }

func (p *TransmitterPdu) walk(w walker) {
	p.Header.walk(w)
	w.record("entityID", &p.EntityID)
	w.u16("radioID", &p.RadioID)
	w.record("radioEntityType", &p.RadioEntityType)
	w.u8("transmitState", (*uint8)(&p.TransmitState))
	w.u8("inputSource", (*uint8)(&p.InputSource))
	w.pad("padding1", 2)
	w.record("antennaLocation", &p.AntennaLocation)
	w.record("relativeAntennaLocation", &p.RelativeAntennaLocation)
	w.u16("antennaPatternType", &p.AntennaPatternType)
	antenna := len(p.AntennaPatternParameters)
	w.count("antennaPatternCount", 2, &antenna)
	w.u64("frequency", &p.Frequency)
	w.f32("transmitFrequencyBandwidth", &p.TransmitFrequencyBandwidth)
	w.f32("power", &p.Power)
	w.record("modulationType", &p.ModulationType)
	w.u16("cryptoSystem", &p.CryptoSystem)
	w.u16("cryptoKeyId", &p.CryptoKeyID)
	modulation := len(p.ModulationParameters)
	w.count("modulationParameterCount", 1, &modulation)
	w.pad("padding2", 3)
	w.blob("modulationParameters", modulation, &p.ModulationParameters)
	w.blob("antennaPatternParameters", antenna, &p.AntennaPatternParameters)
}

// SignalPdu carries encoded audio or data. DataLength is in bits; zero
// means every bit of Data. Data is padded to a 32-bit boundary.
type SignalPdu struct {
	Header
	EntityID       EntityID
	RadioID        uint16
	EncodingScheme uint16
	TDLType        uint16
	SampleRate     uint32
	DataLength     uint16
	Samples        uint16
	Data           []byte
}

func NewSignalPdu() *SignalPdu {
	return &SignalPdu{Header: newHeader(ebv.PDUTypeSignal)}
}

func (p *SignalPdu) Kind() ebv.PDUType { return ebv.PDUTypeSignal }

// Bits returns the data length in bits as it goes on the wire.
func (p *SignalPdu) Bits() int { return effectiveBits(p.DataLength, p.Data) }

func (p *SignalPdu) walk(w walker) {
	p.Header.walk(w)
	w.record("entityID", &p.EntityID)
	w.u16("radioID", &p.RadioID)
	w.u16("encodingScheme", &p.EncodingScheme)
	w.u16("tdlType", &p.TDLType)
	w.u32("sampleRate", &p.SampleRate)
	w.bitLength("dataLength", &p.DataLength, p.Data)
	w.u16("samples", &p.Samples)
	w.blob("data", (int(p.DataLength)+7)/8, &p.Data)
	w.pad("padding", padTo(len(p.Data), 4))
}

type ReceiverPdu struct {
	Header
	EntityID            EntityID
	RadioID             uint16
	ReceiverState       ebv.ReceiverState
	ReceivedPower       float32
	TransmitterEntityID EntityID
	TransmitterRadioID  uint16
}

func NewReceiverPdu() *ReceiverPdu {
	return &ReceiverPdu{Header: newHeader(ebv.PDUTypeReceiver)}
}

func (p *ReceiverPdu) Kind() ebv.PDUType { return ebv.PDUTypeReceiver }

func (p *ReceiverPdu) walk(w walker) {
	p.Header.walk(w)
	w.record("entityID", &p.EntityID)
	w.u16("radioID", &p.RadioID)
	w.u16("receiverState", (*uint16)(&p.ReceiverState))
	w.pad("padding1", 2)
	w.f32("receivedPower", &p.ReceivedPower)
	w.record("transmitterEntityID", &p.TransmitterEntityID)
	w.u16("transmitterRadioID", &p.TransmitterRadioID)
}

// IntercomSignalPdu carries intercom audio. Its data length is a byte count
// and the data is not padded.
type IntercomSignalPdu struct {
	Header
	EntityID               EntityID
	CommunicationsDeviceID uint16
	EncodingScheme         uint16
	TDLType                uint16
	SampleRate             uint32
	Samples                uint16
	Data                   []byte
}

func NewIntercomSignalPdu() *IntercomSignalPdu {
	return &IntercomSignalPdu{Header: newHeader(ebv.PDUTypeIntercomSignal)}
}

func (p *IntercomSignalPdu) Kind() ebv.PDUType { return ebv.PDUTypeIntercomSignal }

func (p *IntercomSignalPdu) walk(w walker) {
	p.Header.walk(w)
	w.record("entityID", &p.EntityID)
	w.u16("communicationsDeviceID", &p.CommunicationsDeviceID)
	w.u16("encodingScheme", &p.EncodingScheme)
	w.u16("tdlType", &p.TDLType)
	w.u32("sampleRate", &p.SampleRate)
	n := len(p.Data)
	w.count("dataLength", 2, &n)
	w.u16("samples", &p.Samples)
	w.blob("data", n, &p.Data)
}
