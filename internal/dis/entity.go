package dis

import "example.com/disgate/internal/ebv"

// EntityStatePdu reports the full state of one entity.
type EntityStatePdu struct {
	Header
	EntityID                EntityID
	ForceID                 ebv.ForceID
	EntityType              EntityType
	AlternativeEntityType   EntityType
	EntityLinearVelocity    Vector3Float
	EntityLocation          Vector3Double
	EntityOrientation       Orientation
	EntityAppearance        uint32
	DeadReckoningParameters DeadReckoningParameter
	Marking                 Marking
	Capabilities            uint32
	ArticulationParameters  []ArticulationParameter
}

func NewEntityStatePdu() *EntityStatePdu {
	return &EntityStatePdu{Header: newHeader(ebv.PDUTypeEntityState)}
}

func (p *EntityStatePdu) Kind() ebv.PDUType { return ebv.PDUTypeEntityState }

func (p *EntityStatePdu) NumberOfArticulationParameters() int {
	return len(p.ArticulationParameters)
}

func (p *EntityStatePdu) walk(w walker) {
	p.Header.walk(w)
	w.record("entityID", &p.EntityID)
	w.u8("forceId", (*uint8)(&p.ForceID))
	n := len(p.ArticulationParameters)
	w.count("numberOfArticulationParameters", 1, &n)
	w.record("entityType", &p.EntityType)
	w.record("alternativeEntityType", &p.AlternativeEntityType)
	w.record("entityLinearVelocity", &p.EntityLinearVelocity)
	w.record("entityLocation", &p.EntityLocation)
	w.record("entityOrientation", &p.EntityOrientation)
	w.u32("entityAppearance", &p.EntityAppearance)
	w.record("deadReckoningParameters", &p.DeadReckoningParameters)
	w.record("marking", &p.Marking)
	w.u32("capabilities", &p.Capabilities)
	w.list("articulationParameters", n, listOf(&p.ArticulationParameters))
}

// EntityStateUpdatePdu carries the non-static subset of entity state.
type EntityStateUpdatePdu struct {
	Header
	EntityID               EntityID
	EntityLinearVelocity   Vector3Float
	EntityLocation         Vector3Double
	EntityOrientation      Orientation
	EntityAppearance       uint32
	ArticulationParameters []ArticulationParameter
}

func NewEntityStateUpdatePdu() *EntityStateUpdatePdu {
	return &EntityStateUpdatePdu{Header: newHeader(ebv.PDUTypeEntityStateUpdate)}
}

func (p *EntityStateUpdatePdu) Kind() ebv.PDUType { return ebv.PDUTypeEntityStateUpdate }

func (p *EntityStateUpdatePdu) NumberOfArticulationParameters() int {
	return len(p.ArticulationParameters)
}

func (p *EntityStateUpdatePdu) walk(w walker) {
	p.Header.walk(w)
	w.record("entityID", &p.EntityID)
	w.pad("padding1", 1)
	n := len(p.ArticulationParameters)
	w.count("numberOfArticulationParameters", 1, &n)
	w.record("entityLinearVelocity", &p.EntityLinearVelocity)
	w.record("entityLocation", &p.EntityLocation)
	w.record("entityOrientation", &p.EntityOrientation)
	w.u32("entityAppearance", &p.EntityAppearance)
	w.list("articulationParameters", n, listOf(&p.ArticulationParameters))
}

type CollisionPdu struct {
	Header
	IssuingEntityID   EntityID
	CollidingEntityID EntityID
	EventID           EventID
	CollisionType     ebv.CollisionType
	Velocity          Vector3Float
	Mass              float32
	Location          Vector3Float
}

func NewCollisionPdu() *CollisionPdu {
	return &CollisionPdu{Header: newHeader(ebv.PDUTypeCollision)}
}

func (p *CollisionPdu) Kind() ebv.PDUType { return ebv.PDUTypeCollision }

func (p *CollisionPdu) walk(w walker) {
	p.Header.walk(w)
	w.record("issuingEntityID", &p.IssuingEntityID)
	w.record("collidingEntityID", &p.CollidingEntityID)
	w.record("eventID", &p.EventID)
	w.u8("collisionType", (*uint8)(&p.CollisionType))
	w.pad("pad", 1)
	w.record("velocity", &p.Velocity)
	w.f32("mass", &p.Mass)
	w.record("location", &p.Location)
}
