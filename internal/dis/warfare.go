package dis

import "example.com/disgate/internal/ebv"

type FirePdu struct {
	Header
	WarfareFamily
	MunitionID                 EntityID
	EventID                    EventID
	FireMissionIndex           uint32
	LocationInWorldCoordinates Vector3Double
	BurstDescriptor            BurstDescriptor
	Velocity                   Vector3Float
	RangeToTarget              float32
}

func NewFirePdu() *FirePdu {
	return &FirePdu{Header: newHeader(ebv.PDUTypeFire)}
}

func (p *FirePdu) Kind() ebv.PDUType { return ebv.PDUTypeFire }

func (p *FirePdu) walk(w walker) {
	p.Header.walk(w)
	p.WarfareFamily.walk(w)
	w.record("munitionID", &p.MunitionID)
	w.record("eventID", &p.EventID)
	w.u32("fireMissionIndex", &p.FireMissionIndex)
	w.record("locationInWorldCoordinates", &p.LocationInWorldCoordinates)
	w.record("burstDescriptor", &p.BurstDescriptor)
	w.record("velocity", &p.Velocity)
	w.f32("rangeToTarget", &p.RangeToTarget)
}

type DetonationPdu struct {
	Header
	WarfareFamily
	MunitionID                  EntityID
	EventID                     EventID
	Velocity                    Vector3Float
	LocationInWorldCoordinates  Vector3Double
	BurstDescriptor             BurstDescriptor
	LocationInEntityCoordinates Vector3Float
	DetonationResult            ebv.DetonationResult
	ArticulationParameters      []ArticulationParameter
}

func NewDetonationPdu() *DetonationPdu {
	return &DetonationPdu{Header: newHeader(ebv.PDUTypeDetonation)}
}

func (p *DetonationPdu) Kind() ebv.PDUType { return ebv.PDUTypeDetonation }

func (p *DetonationPdu) NumberOfArticulationParameters() int {
	return len(p.ArticulationParameters)
}

func (p *DetonationPdu) walk(w walker) {
	p.Header.walk(w)
	p.WarfareFamily.walk(w)
	w.record("munitionID", &p.MunitionID)
	w.record("eventID", &p.EventID)
	w.record("velocity", &p.Velocity)
	w.record("locationInWorldCoordinates", &p.LocationInWorldCoordinates)
	w.record("burstDescriptor", &p.BurstDescriptor)
	w.record("locationInEntityCoordinates", &p.LocationInEntityCoordinates)
	w.u8("detonationResult", (*uint8)(&p.DetonationResult))
	n := len(p.ArticulationParameters)
	w.count("numberOfArticulationParameters", 1, &n)
	w.pad("pad", 2)
	w.list("articulationParameters", n, listOf(&p.ArticulationParameters))
}
