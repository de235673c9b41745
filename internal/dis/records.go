package dis

import (
	"bytes"

	"example.com/disgate/internal/ebv"
)

// EntityID identifies an entity within an exercise.
type EntityID struct {
	Site        uint16
	Application uint16
	Entity      uint16
}

func (r *EntityID) walk(w walker) {
	w.u16("site", &r.Site)
	w.u16("application", &r.Application)
	w.u16("entity", &r.Entity)
}

type SimulationAddress struct {
	Site        uint16
	Application uint16
}

func (r *SimulationAddress) walk(w walker) {
	w.u16("site", &r.Site)
	w.u16("application", &r.Application)
}

// EventID associates related events such as a fire and its detonation.
type EventID struct {
	Site        uint16
	Application uint16
	EventNumber uint16
}

func (r *EventID) walk(w walker) {
	w.u16("site", &r.Site)
	w.u16("application", &r.Application)
	w.u16("eventNumber", &r.EventNumber)
}

type EntityType struct {
	EntityKind  uint8
	Domain      uint8
	Country     uint16
	Category    uint8
	Subcategory uint8
	Specific    uint8
	Extra       uint8
}

func (r *EntityType) walk(w walker) {
	w.u8("entityKind", &r.EntityKind)
	w.u8("domain", &r.Domain)
	w.u16("country", &r.Country)
	w.u8("category", &r.Category)
	w.u8("subcategory", &r.Subcategory)
	w.u8("specific", &r.Specific)
	w.u8("extra", &r.Extra)
}

func (r *EntityType) Key() ebv.EntityKey {
	return ebv.EntityKey{
		Kind:        r.EntityKind,
		Domain:      r.Domain,
		Country:     r.Country,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Specific:    r.Specific,
		Extra:       r.Extra,
	}
}

type RadioEntityType struct {
	EntityKind          uint8
	Domain              uint8
	Country             uint16
	Category            uint8
	NomenclatureVersion uint8
	Nomenclature        uint16
}

func (r *RadioEntityType) walk(w walker) {
	w.u8("entityKind", &r.EntityKind)
	w.u8("domain", &r.Domain)
	w.u16("country", &r.Country)
	w.u8("category", &r.Category)
	w.u8("nomenclatureVersion", &r.NomenclatureVersion)
	w.u16("nomenclature", &r.Nomenclature)
}

type Vector3Float struct {
	X, Y, Z float32
}

func (r *Vector3Float) walk(w walker) {
	w.f32("x", &r.X)
	w.f32("y", &r.Y)
	w.f32("z", &r.Z)
}

// Vector3Double carries geocentric world coordinates.
type Vector3Double struct {
	X, Y, Z float64
}

func (r *Vector3Double) walk(w walker) {
	w.f64("x", &r.X)
	w.f64("y", &r.Y)
	w.f64("z", &r.Z)
}

// Orientation holds Euler angles in radians.
type Orientation struct {
	Psi, Theta, Phi float32
}

func (r *Orientation) walk(w walker) {
	w.f32("psi", &r.Psi)
	w.f32("theta", &r.Theta)
	w.f32("phi", &r.Phi)
}

type ClockTime struct {
	Hour         int32
	TimePastHour uint32
}

func (r *ClockTime) walk(w walker) {
	w.i32("hour", &r.Hour)
	w.u32("timePastHour", &r.TimePastHour)
}

type BurstDescriptor struct {
	Munition EntityType
	Warhead  uint16
	Fuse     uint16
	Quantity uint16
	Rate     uint16
}

func (r *BurstDescriptor) walk(w walker) {
	w.record("munition", &r.Munition)
	w.u16("warhead", &r.Warhead)
	w.u16("fuse", &r.Fuse)
	w.u16("quantity", &r.Quantity)
	w.u16("rate", &r.Rate)
}

type DeadReckoningParameter struct {
	DeadReckoningAlgorithm   ebv.DeadReckoningAlgorithm
	OtherParameters          [15]byte
	EntityLinearAcceleration Vector3Float
	EntityAngularVelocity    Vector3Float
}

func (r *DeadReckoningParameter) walk(w walker) {
	w.u8("deadReckoningAlgorithm", (*uint8)(&r.DeadReckoningAlgorithm))
	w.octets("otherParameters", r.OtherParameters[:])
	w.record("entityLinearAcceleration", &r.EntityLinearAcceleration)
	w.record("entityAngularVelocity", &r.EntityAngularVelocity)
}

// Marking is the eleven character entity label.
type Marking struct {
	CharacterSet ebv.CharacterSet
	Characters   [11]byte
}

// NewMarking builds an ASCII marking, truncating s to eleven bytes.
func NewMarking(s string) Marking {
	m := Marking{CharacterSet: 1}
	copy(m.Characters[:], s)
	return m
}

// String returns the characters up to the first NUL.
func (r Marking) String() string {
	if i := bytes.IndexByte(r.Characters[:], 0); i >= 0 {
		return string(r.Characters[:i])
	}
	return string(r.Characters[:])
}

func (r *Marking) walk(w walker) {
	w.u8("characterSet", (*uint8)(&r.CharacterSet))
	w.octets("characters", r.Characters[:])
}

type ArticulationParameter struct {
	ParameterTypeDesignator ebv.ParameterTypeDesignator
	ChangeIndicator         uint8
	PartAttachedTo          uint16
	ParameterType           int32
	ParameterValue          float64
}

func (r *ArticulationParameter) walk(w walker) {
	w.u8("parameterTypeDesignator", (*uint8)(&r.ParameterTypeDesignator))
	w.u8("changeIndicator", &r.ChangeIndicator)
	w.u16("partAttachedTo", &r.PartAttachedTo)
	w.i32("parameterType", &r.ParameterType)
	w.f64("parameterValue", &r.ParameterValue)
}

type FixedDatum struct {
	FixedDatumID    uint32
	FixedDatumValue uint32
}

func (r *FixedDatum) walk(w walker) {
	w.u32("fixedDatumID", &r.FixedDatumID)
	w.u32("fixedDatumValue", &r.FixedDatumValue)
}

// VariableDatum carries an opaque value. Its length goes on the wire in
// bits and the value is padded to a 64-bit boundary.
type VariableDatum struct {
	VariableDatumID uint32
	Value           []byte
}

func (r *VariableDatum) walk(w walker) {
	w.u32("variableDatumID", &r.VariableDatumID)
	bits := len(r.Value) * 8
	w.count("variableDatumLength", 4, &bits)
	w.blob("variableDatumValue", (bits+7)/8, &r.Value)
	w.pad("padding", padTo(len(r.Value), 8))
}

type ModulationType struct {
	SpreadSpectrum uint16
	Major          uint16
	Detail         uint16
	System         uint16
}

func (r *ModulationType) walk(w walker) {
	w.u16("spreadSpectrum", &r.SpreadSpectrum)
	w.u16("major", &r.Major)
	w.u16("detail", &r.Detail)
	w.u16("system", &r.System)
}

type EmitterSystem struct {
	EmitterName     uint16
	Function        uint8
	EmitterIDNumber uint8
}

func (r *EmitterSystem) walk(w walker) {
	w.u16("emitterName", &r.EmitterName)
	w.u8("function", &r.Function)
	w.u8("emitterIdNumber", &r.EmitterIDNumber)
}

type FundamentalParameterData struct {
	Frequency                float32
	FrequencyRange           float32
	EffectiveRadiatedPower   float32
	PulseRepetitionFrequency float32
	PulseWidth               float32
	BeamAzimuthCenter        float32
	BeamAzimuthSweep         float32
	BeamElevationCenter      float32
	BeamElevationSweep       float32
	BeamSweepSync            float32
}

func (r *FundamentalParameterData) walk(w walker) {
	w.f32("frequency", &r.Frequency)
	w.f32("frequencyRange", &r.FrequencyRange)
	w.f32("effectiveRadiatedPower", &r.EffectiveRadiatedPower)
	w.f32("pulseRepetitionFrequency", &r.PulseRepetitionFrequency)
	w.f32("pulseWidth", &r.PulseWidth)
	w.f32("beamAzimuthCenter", &r.BeamAzimuthCenter)
	w.f32("beamAzimuthSweep", &r.BeamAzimuthSweep)
	w.f32("beamElevationCenter", &r.BeamElevationCenter)
	w.f32("beamElevationSweep", &r.BeamElevationSweep)
	w.f32("beamSweepSync", &r.BeamSweepSync)
}
