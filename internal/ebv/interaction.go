package ebv

// DetonationResult describes the outcome of a detonation.
type DetonationResult uint8

var detonationResultNames = map[DetonationResult]string{
	0:  "Other",
	1:  "Entity Impact",
	2:  "Entity Proximate Detonation",
	3:  "Ground Impact",
	4:  "Ground Proximate Detonation",
	5:  "Detonation",
	6:  "None or No Detonation (Dud)",
	7:  "HE hit, small",
	8:  "HE hit, medium",
	9:  "HE hit, large",
	10: "Armor-piercing hit",
	11: "Dirt blast, small",
	12: "Dirt blast, medium",
	13: "Dirt blast, large",
	14: "Water blast, small",
	15: "Water blast, medium",
	16: "Water blast, large",
	17: "Air hit",
	18: "Building hit, small",
	19: "Building hit, medium",
	20: "Building hit, large",
	21: "Mine-clearing line charge",
	22: "Environment object impact",
	23: "Environment object proximate detonation",
	24: "Water Impact",
	25: "Air Burst",
}

func (d DetonationResult) String() string {
	return lookup(detonationResultNames, d, "detonation result")
}

// StopFreezeReason explains why a simulation was stopped.
type StopFreezeReason uint8

var stopFreezeReasonNames = map[StopFreezeReason]string{
	0: "Other",
	1: "Recess",
	2: "Termination",
	3: "System Failure",
	4: "Security Violation",
	5: "Entity Reconstitution",
	6: "Stop for reset",
	7: "Stop for restart",
	8: "Abort Training Return to Tactical Operations",
}

func (r StopFreezeReason) String() string {
	return lookup(stopFreezeReasonNames, r, "stop/freeze reason")
}

// AcknowledgeFlag names the request being acknowledged.
type AcknowledgeFlag uint16

var acknowledgeFlagNames = map[AcknowledgeFlag]string{
	1: "Create Entity",
	2: "Remove Entity",
	3: "Start/Resume",
	4: "Stop/Freeze",
	5: "Transfer Control Request",
}

func (a AcknowledgeFlag) String() string { return lookup(acknowledgeFlagNames, a, "acknowledge flag") }

// AcknowledgeResponse tells whether a request can be complied with.
type AcknowledgeResponse uint16

var acknowledgeResponseNames = map[AcknowledgeResponse]string{
	0: "Other",
	1: "Able to comply",
	2: "Unable to comply",
	3: "Pending Operator Action",
}

func (a AcknowledgeResponse) String() string {
	return lookup(acknowledgeResponseNames, a, "acknowledge response")
}

// RequestStatus is the status reported in an action response.
type RequestStatus uint32

var requestStatusNames = map[RequestStatus]string{
	0:   "Other",
	1:   "Pending",
	2:   "Executing",
	3:   "Partially Complete",
	4:   "Complete",
	5:   "Request rejected",
	6:   "Retransmit request now",
	7:   "Retransmit request later",
	8:   "Invalid time parameters",
	9:   "Simulation time exceeded",
	10:  "Request done",
	100: "TACCSF LOS Reply-Type 1",
	101: "TACCSF LOS Reply-Type 2",
	201: "Join Exercise Request Rejected",
}

func (s RequestStatus) String() string { return lookup(requestStatusNames, s, "request status") }
