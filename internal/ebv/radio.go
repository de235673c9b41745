package ebv

// TransmitState is the state of a radio transmitter.
type TransmitState uint8

var transmitStateNames = map[TransmitState]string{
	0: "Off",
	1: "On but not transmitting",
	2: "On and transmitting",
}

func (s TransmitState) String() string { return lookup(transmitStateNames, s, "transmit state") }

// InputSource identifies the crew position feeding a radio.
type InputSource uint8

var inputSourceNames = map[InputSource]string{
	0:  "Other",
	1:  "Pilot",
	2:  "Copilot",
	3:  "First Officer",
	4:  "Driver",
	5:  "Loader",
	6:  "Gunner",
	7:  "Commander",
	8:  "Digital Data Device",
	9:  "Intercom",
	10: "Audio Jammer",
}

func (s InputSource) String() string { return lookup(inputSourceNames, s, "input source") }

// ReceiverState is the state of a radio receiver.
type ReceiverState uint16

var receiverStateNames = map[ReceiverState]string{
	0: "Off",
	1: "On but not receiving or not ready",
	2: "On and receiving",
}

func (s ReceiverState) String() string { return lookup(receiverStateNames, s, "receiver state") }

// SignalEncodingClass is carried in the two most significant bits of the
// signal encoding scheme field.
type SignalEncodingClass uint8

var signalEncodingClassNames = map[SignalEncodingClass]string{
	0: "Encoded audio",
	1: "Raw Binary Data",
	2: "Application-Specific Data",
	3: "Database index",
}

func (c SignalEncodingClass) String() string {
	return lookup(signalEncodingClassNames, c, "signal encoding class")
}

// EncodingClassOf extracts the encoding class from an encoding scheme value.
func EncodingClassOf(scheme uint16) SignalEncodingClass {
	return SignalEncodingClass(scheme >> 14)
}

// BeamFunction is the function of an emitter beam.
type BeamFunction uint8

var beamFunctionNames = map[BeamFunction]string{
	0:  "Other",
	1:  "Search",
	2:  "Height finder",
	3:  "Acquisition",
	4:  "Tracking",
	5:  "Acquisition and tracking",
	6:  "Command guidance",
	7:  "Illumination",
	8:  "Range only radar",
	9:  "Missile beacon",
	10: "Missile fuze",
	11: "Active radar missile seeker",
	12: "Jammer",
	13: "IFF",
	14: "Navigational / Weather",
	15: "Meteorological",
	16: "Data transmission",
	17: "Navigational directional beacon",
}

func (f BeamFunction) String() string { return lookup(beamFunctionNames, f, "beam function") }

// StateUpdateIndicator marks emission PDUs as heartbeats or changes.
type StateUpdateIndicator uint8

var stateUpdateIndicatorNames = map[StateUpdateIndicator]string{
	0: "Heartbeat Update",
	1: "Changed Data Update",
}

func (s StateUpdateIndicator) String() string {
	return lookup(stateUpdateIndicatorNames, s, "state update indicator")
}
