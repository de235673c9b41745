package ebv

// describers maps DIS wire field tags to the table interpreting them.
var describers = map[string]func(v uint64) (string, bool){
	"protocolVersion":         table(protocolVersionNames),
	"protocolFamily":          table(protocolFamilyNames),
	"pduType":                 pduTypeName,
	"forceId":                 table(forceIDNames),
	"entityKind":              table(entityKindNames),
	"domain":                  table(domainNames),
	"country":                 table(countryNames),
	"deadReckoningAlgorithm":  table(deadReckoningNames),
	"parameterTypeDesignator": table(parameterTypeDesignatorNames),
	"characterSet":            table(characterSetNames),
	"collisionType":           table(collisionTypeNames),
	"detonationResult":        table(detonationResultNames),
	"reason":                  table(stopFreezeReasonNames),
	"acknowledgeFlag":         table(acknowledgeFlagNames),
	"responseFlag":            table(acknowledgeResponseNames),
	"requestStatus":           table(requestStatusNames),
	"transmitState":           table(transmitStateNames),
	"inputSource":             table(inputSourceNames),
	"receiverState":           table(receiverStateNames),
	"encodingScheme": func(v uint64) (string, bool) {
		if v > 0xFFFF {
			return "", false
		}
		name, ok := signalEncodingClassNames[EncodingClassOf(uint16(v))]
		return name, ok
	},
	"beamFunction":         table(beamFunctionNames),
	"stateUpdateIndicator": table(stateUpdateIndicatorNames),
}

// Describe returns the built-in description of value for the wire field tag.
func Describe(field string, value uint64) (string, bool) {
	fn, ok := describers[field]
	if !ok {
		return "", false
	}
	return fn(value)
}

func table[K ~uint8 | ~uint16 | ~uint32](names map[K]string) func(uint64) (string, bool) {
	return func(v uint64) (string, bool) {
		k := K(v)
		if uint64(k) != v {
			return "", false
		}
		name, ok := names[k]
		return name, ok
	}
}

func pduTypeName(v uint64) (string, bool) {
	if v > 0xFF {
		return "", false
	}
	info, ok := pduTypes[PDUType(v)]
	return info.name, ok
}
