package dis

import "example.com/disgate/internal/ebv"

const (
	emitterBeamWords    = 13
	trackJamTargetWords = 2
	emissionSystemWords = 5
)

type TrackJamTarget struct {
	TrackJam  EntityID
	EmitterID uint8
	BeamID    uint8
}

func (r *TrackJamTarget) walk(w walker) {
	w.record("trackJam", &r.TrackJam)
	w.u8("emitterID", &r.EmitterID)
	w.u8("beamID", &r.BeamID)
}

type EmitterBeam struct {
	BeamIDNumber             uint8
	BeamParameterIndex       uint16
	FundamentalParameterData FundamentalParameterData
	BeamFunction             ebv.BeamFunction
	HighDensityTrackJam      uint8
	JammingModeSequence      uint32
	TrackJamTargets          []TrackJamTarget
}

// words is the beam data length in 32-bit words.
func (r *EmitterBeam) words() int {
	return emitterBeamWords + trackJamTargetWords*len(r.TrackJamTargets)
}

func (r *EmitterBeam) walk(w walker) {
	words := r.words()
	w.count("beamDataLength", 1, &words)
	w.u8("beamIDNumber", &r.BeamIDNumber)
	w.u16("beamParameterIndex", &r.BeamParameterIndex)
	w.record("fundamentalParameterData", &r.FundamentalParameterData)
	w.u8("beamFunction", (*uint8)(&r.BeamFunction))
	n := len(r.TrackJamTargets)
	w.count("numberOfTrackJamTargets", 1, &n)
	w.u8("highDensityTrackJam", &r.HighDensityTrackJam)
	w.pad("pad4", 1)
	w.u32("jammingModeSequence", &r.JammingModeSequence)
	w.list("trackJamTargets", n, listOf(&r.TrackJamTargets))
}

type EmissionSystem struct {
	EmitterSystem EmitterSystem
	Location      Vector3Float
	Beams         []EmitterBeam
}

// words is the system data length in 32-bit words.
func (r *EmissionSystem) words() int {
	n := emissionSystemWords
	for i := range r.Beams {
		n += r.Beams[i].words()
	}
	return n
}

func (r *EmissionSystem) walk(w walker) {
	words := r.words()
	w.count("systemDataLength", 1, &words)
	n := len(r.Beams)
	w.count("numberOfBeams", 1, &n)
	w.pad("emissionsPadding2", 2)
	w.record("emitterSystem", &r.EmitterSystem)
	w.record("location", &r.Location)
	w.list("beams", n, listOf(&r.Beams))
}

type ElectromagneticEmissionPdu struct {
	Header
	EmittingEntityID     EntityID
	EventID              EventID
	StateUpdateIndicator ebv.StateUpdateIndicator
	Systems              []EmissionSystem
}

func NewElectromagneticEmissionPdu() *ElectromagneticEmissionPdu {
	return &ElectromagneticEmissionPdu{Header: newHeader(ebv.PDUTypeElectromagneticEmission)}
}

func (p *ElectromagneticEmissionPdu) Kind() ebv.PDUType { return ebv.PDUTypeElectromagneticEmission }

func (p *ElectromagneticEmissionPdu) NumberOfSystems() int { return len(p.Systems) }

func (p *ElectromagneticEmissionPdu) walk(w walker) {
	p.Header.walk(w)
	w.record("emittingEntityID", &p.EmittingEntityID)
	w.record("eventID", &p.EventID)
	w.u8("stateUpdateIndicator", (*uint8)(&p.StateUpdateIndicator))
	n := len(p.Systems)
	w.count("numberOfSystems", 1, &n)
	w.pad("paddingForEmissionsPdu", 2)
	w.list("systems", n, listOf(&p.Systems))
}
