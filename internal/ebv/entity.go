package ebv

// ForceID identifies the side an entity belongs to.
type ForceID uint8

const (
	ForceOther    ForceID = 0
	ForceFriendly ForceID = 1
	ForceOpposing ForceID = 2
	ForceNeutral  ForceID = 3
)

var forceIDNames = map[ForceID]string{
	ForceOther:    "Other",
	ForceFriendly: "Friendly",
	ForceOpposing: "Opposing",
	ForceNeutral:  "Neutral",
}

func (f ForceID) String() string { return lookup(forceIDNames, f, "force id") }

// EntityKind is the first field of an entity type.
type EntityKind uint8

const (
	KindOther           EntityKind = 0
	KindPlatform        EntityKind = 1
	KindMunition        EntityKind = 2
	KindLifeForm        EntityKind = 3
	KindEnvironmental   EntityKind = 4
	KindCulturalFeature EntityKind = 5
	KindSupply          EntityKind = 6
	KindRadio           EntityKind = 7
	KindExpendable      EntityKind = 8
	KindSensorEmitter   EntityKind = 9
)

var entityKindNames = map[EntityKind]string{
	KindOther:           "Other",
	KindPlatform:        "Platform",
	KindMunition:        "Munition",
	KindLifeForm:        "Life form",
	KindEnvironmental:   "Environmental",
	KindCulturalFeature: "Cultural feature",
	KindSupply:          "Supply",
	KindRadio:           "Radio",
	KindExpendable:      "Expendable",
	KindSensorEmitter:   "Sensor/Emitter",
}

func (k EntityKind) String() string { return lookup(entityKindNames, k, "entity kind") }

// Domain is the platform domain of an entity type.
type Domain uint8

const (
	DomainOther      Domain = 0
	DomainLand       Domain = 1
	DomainAir        Domain = 2
	DomainSurface    Domain = 3
	DomainSubsurface Domain = 4
	DomainSpace      Domain = 5
)

var domainNames = map[Domain]string{
	DomainOther:      "Other",
	DomainLand:       "Land",
	DomainAir:        "Air",
	DomainSurface:    "Surface",
	DomainSubsurface: "Subsurface",
	DomainSpace:      "Space",
}

func (d Domain) String() string { return lookup(domainNames, d, "domain") }

// Country is the 16-bit country code used in entity types.
type Country uint16

const (
	CountryOther         Country = 0
	CountryAustralia     Country = 13
	CountryCanada        Country = 39
	CountryChina         Country = 45
	CountryFrance        Country = 71
	CountryGermany       Country = 78
	CountryIsrael        Country = 105
	CountryItaly         Country = 106
	CountryJapan         Country = 110
	CountryNetherlands   Country = 153
	CountryNorway        Country = 161
	CountryRussia        Country = 222
	CountryUnitedKingdom Country = 224
	CountryUnitedStates  Country = 225
)

var countryNames = map[Country]string{
	CountryOther:         "Other",
	CountryAustralia:     "Australia",
	CountryCanada:        "Canada",
	CountryChina:         "China, People's Republic of",
	CountryFrance:        "France",
	CountryGermany:       "Germany",
	CountryIsrael:        "Israel",
	CountryItaly:         "Italy",
	CountryJapan:         "Japan",
	CountryNetherlands:   "Netherlands",
	CountryNorway:        "Norway",
	CountryRussia:        "Russia",
	CountryUnitedKingdom: "United Kingdom",
	CountryUnitedStates:  "United States",
}

func (c Country) String() string { return lookup(countryNames, c, "country") }

// DeadReckoningAlgorithm selects the extrapolation model receivers apply.
type DeadReckoningAlgorithm uint8

var deadReckoningNames = map[DeadReckoningAlgorithm]string{
	0: "Other",
	1: "Static",
	2: "DRM(F, P, W)",
	3: "DRM(R, P, W)",
	4: "DRM(R, V, W)",
	5: "DRM(F, V, W)",
	6: "DRM(F, P, B)",
	7: "DRM(R, P, B)",
	8: "DRM(R, V, B)",
	9: "DRM(F, V, B)",
}

func (a DeadReckoningAlgorithm) String() string {
	return lookup(deadReckoningNames, a, "dead reckoning algorithm")
}

// ParameterTypeDesignator tells articulated parts from attached parts.
type ParameterTypeDesignator uint8

const (
	ArticulatedPart ParameterTypeDesignator = 0
	AttachedPart    ParameterTypeDesignator = 1
)

var parameterTypeDesignatorNames = map[ParameterTypeDesignator]string{
	ArticulatedPart: "Articulated Part",
	AttachedPart:    "Attached Part",
}

func (p ParameterTypeDesignator) String() string {
	return lookup(parameterTypeDesignatorNames, p, "parameter type designator")
}

// CharacterSet is the marking character set.
type CharacterSet uint8

var characterSetNames = map[CharacterSet]string{
	0: "Unused",
	1: "ASCII",
	2: "Army Marking (CCTT)",
	3: "Digit Chevron",
}

func (c CharacterSet) String() string { return lookup(characterSetNames, c, "character set") }

// CollisionType distinguishes inelastic from elastic collisions.
type CollisionType uint8

var collisionTypeNames = map[CollisionType]string{
	0: "Inelastic",
	1: "Elastic",
}

func (c CollisionType) String() string { return lookup(collisionTypeNames, c, "collision type") }
