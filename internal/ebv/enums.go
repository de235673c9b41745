// Package ebv holds the subset of the SISO enumeration and bit-vector tables
// needed to interpret DIS 6 records. The tables describe wire values; they
// never constrain them.
package ebv

import "fmt"

// ProtocolVersion identifies the DIS revision a PDU was built against.
type ProtocolVersion uint8

const (
	ProtocolVersionOther    ProtocolVersion = 0
	ProtocolVersionDIS1     ProtocolVersion = 1
	ProtocolVersion1278_93  ProtocolVersion = 2
	ProtocolVersionDIS2_3   ProtocolVersion = 3
	ProtocolVersionDIS2_4   ProtocolVersion = 4
	ProtocolVersion1278_95  ProtocolVersion = 5
	ProtocolVersion1278_98  ProtocolVersion = 6
	ProtocolVersion1278_12  ProtocolVersion = 7
	CurrentProtocolVersion                  = ProtocolVersion1278_98
)

var protocolVersionNames = map[ProtocolVersion]string{
	ProtocolVersionOther:   "Other",
	ProtocolVersionDIS1:    "DIS PDU version 1.0 (May 92)",
	ProtocolVersion1278_93: "IEEE 1278-1993",
	ProtocolVersionDIS2_3:  "DIS PDU version 2.0 - third draft (May 93)",
	ProtocolVersionDIS2_4:  "DIS PDU version 2.0 - fourth draft (revised) March 16, 1994",
	ProtocolVersion1278_95: "IEEE 1278.1-1995",
	ProtocolVersion1278_98: "IEEE 1278.1A-1998",
	ProtocolVersion1278_12: "IEEE 1278.1-2012",
}

func (v ProtocolVersion) String() string { return lookup(protocolVersionNames, v, "protocol version") }

// Known reports whether v is a published protocol revision.
func (v ProtocolVersion) Known() bool {
	return v >= ProtocolVersionDIS1 && v <= ProtocolVersion1278_12
}

// ProtocolFamily groups PDU types.
type ProtocolFamily uint8

const (
	FamilyOther                      ProtocolFamily = 0
	FamilyEntityInformation          ProtocolFamily = 1
	FamilyWarfare                    ProtocolFamily = 2
	FamilyLogistics                  ProtocolFamily = 3
	FamilyRadioCommunications        ProtocolFamily = 4
	FamilySimulationManagement       ProtocolFamily = 5
	FamilyDistributedEmission        ProtocolFamily = 6
	FamilyEntityManagement           ProtocolFamily = 7
	FamilyMinefield                  ProtocolFamily = 8
	FamilySyntheticEnvironment       ProtocolFamily = 9
	FamilySimulationManagementReliab ProtocolFamily = 10
	FamilyLiveEntity                 ProtocolFamily = 11
	FamilyNonRealTime                ProtocolFamily = 12
	FamilyInformationOperations      ProtocolFamily = 13
)

var protocolFamilyNames = map[ProtocolFamily]string{
	FamilyOther:                      "Other",
	FamilyEntityInformation:          "Entity Information/Interaction",
	FamilyWarfare:                    "Warfare",
	FamilyLogistics:                  "Logistics",
	FamilyRadioCommunications:        "Radio Communications",
	FamilySimulationManagement:       "Simulation Management",
	FamilyDistributedEmission:        "Distributed Emission Regeneration",
	FamilyEntityManagement:           "Entity Management",
	FamilyMinefield:                  "Minefield",
	FamilySyntheticEnvironment:       "Synthetic Environment",
	FamilySimulationManagementReliab: "Simulation Management with Reliability",
	FamilyLiveEntity:                 "Live Entity",
	FamilyNonRealTime:                "Non-Real Time",
	FamilyInformationOperations:      "Information Operations",
}

func (f ProtocolFamily) String() string { return lookup(protocolFamilyNames, f, "protocol family") }

// PDUType is the PDU type byte of the PDU header.
type PDUType uint8

const (
	PDUTypeOther                   PDUType = 0
	PDUTypeEntityState             PDUType = 1
	PDUTypeFire                    PDUType = 2
	PDUTypeDetonation              PDUType = 3
	PDUTypeCollision               PDUType = 4
	PDUTypeServiceRequest          PDUType = 5
	PDUTypeResupplyOffer           PDUType = 6
	PDUTypeResupplyReceived        PDUType = 7
	PDUTypeResupplyCancel          PDUType = 8
	PDUTypeRepairComplete          PDUType = 9
	PDUTypeRepairResponse          PDUType = 10
	PDUTypeCreateEntity            PDUType = 11
	PDUTypeRemoveEntity            PDUType = 12
	PDUTypeStartResume             PDUType = 13
	PDUTypeStopFreeze              PDUType = 14
	PDUTypeAcknowledge             PDUType = 15
	PDUTypeActionRequest           PDUType = 16
	PDUTypeActionResponse          PDUType = 17
	PDUTypeDataQuery               PDUType = 18
	PDUTypeSetData                 PDUType = 19
	PDUTypeData                    PDUType = 20
	PDUTypeEventReport             PDUType = 21
	PDUTypeComment                 PDUType = 22
	PDUTypeElectromagneticEmission PDUType = 23
	PDUTypeDesignator              PDUType = 24
	PDUTypeTransmitter             PDUType = 25
	PDUTypeSignal                  PDUType = 26
	PDUTypeReceiver                PDUType = 27
	PDUTypeIFF                     PDUType = 28
	PDUTypeUnderwaterAcoustic      PDUType = 29
	PDUTypeSupplementalEmission    PDUType = 30
	PDUTypeIntercomSignal          PDUType = 31
	PDUTypeIntercomControl         PDUType = 32
	PDUTypeAggregateState          PDUType = 33
	PDUTypeIsGroupOf               PDUType = 34
	PDUTypeTransferControl         PDUType = 35
	PDUTypeIsPartOf                PDUType = 36
	PDUTypeMinefieldState          PDUType = 37
	PDUTypeMinefieldQuery          PDUType = 38
	PDUTypeMinefieldData           PDUType = 39
	PDUTypeMinefieldResponseNACK   PDUType = 40
	PDUTypeEnvironmentalProcess    PDUType = 41
	PDUTypeGriddedData             PDUType = 42
	PDUTypePointObjectState        PDUType = 43
	PDUTypeLinearObjectState       PDUType = 44
	PDUTypeArealObjectState        PDUType = 45
	PDUTypeTSPI                    PDUType = 46
	PDUTypeAppearance              PDUType = 47
	PDUTypeArticulatedParts        PDUType = 48
	PDUTypeLEFire                  PDUType = 49
	PDUTypeLEDetonation            PDUType = 50
	PDUTypeCreateEntityR           PDUType = 51
	PDUTypeRemoveEntityR           PDUType = 52
	PDUTypeStartResumeR            PDUType = 53
	PDUTypeStopFreezeR             PDUType = 54
	PDUTypeAcknowledgeR            PDUType = 55
	PDUTypeActionRequestR          PDUType = 56
	PDUTypeActionResponseR         PDUType = 57
	PDUTypeDataQueryR              PDUType = 58
	PDUTypeSetDataR                PDUType = 59
	PDUTypeDataR                   PDUType = 60
	PDUTypeEventReportR            PDUType = 61
	PDUTypeCommentR                PDUType = 62
	PDUTypeRecordR                 PDUType = 63
	PDUTypeSetRecordR              PDUType = 64
	PDUTypeRecordQueryR            PDUType = 65
	PDUTypeCollisionElastic        PDUType = 66
	PDUTypeEntityStateUpdate       PDUType = 67
)

type pduTypeInfo struct {
	name   string
	family ProtocolFamily
}

var pduTypes = map[PDUType]pduTypeInfo{
	PDUTypeOther:                   {"Other", FamilyOther},
	PDUTypeEntityState:             {"Entity State", FamilyEntityInformation},
	PDUTypeFire:                    {"Fire", FamilyWarfare},
	PDUTypeDetonation:              {"Detonation", FamilyWarfare},
	PDUTypeCollision:               {"Collision", FamilyEntityInformation},
	PDUTypeServiceRequest:          {"Service Request", FamilyLogistics},
	PDUTypeResupplyOffer:           {"Resupply Offer", FamilyLogistics},
	PDUTypeResupplyReceived:        {"Resupply Received", FamilyLogistics},
	PDUTypeResupplyCancel:          {"Resupply Cancel", FamilyLogistics},
	PDUTypeRepairComplete:          {"Repair Complete", FamilyLogistics},
	PDUTypeRepairResponse:          {"Repair Response", FamilyLogistics},
	PDUTypeCreateEntity:            {"Create Entity", FamilySimulationManagement},
	PDUTypeRemoveEntity:            {"Remove Entity", FamilySimulationManagement},
	PDUTypeStartResume:             {"Start/Resume", FamilySimulationManagement},
	PDUTypeStopFreeze:              {"Stop/Freeze", FamilySimulationManagement},
	PDUTypeAcknowledge:             {"Acknowledge", FamilySimulationManagement},
	PDUTypeActionRequest:           {"Action Request", FamilySimulationManagement},
	PDUTypeActionResponse:          {"Action Response", FamilySimulationManagement},
	PDUTypeDataQuery:               {"Data Query", FamilySimulationManagement},
	PDUTypeSetData:                 {"Set Data", FamilySimulationManagement},
	PDUTypeData:                    {"Data", FamilySimulationManagement},
	PDUTypeEventReport:             {"Event Report", FamilySimulationManagement},
	PDUTypeComment:                 {"Comment", FamilySimulationManagement},
	PDUTypeElectromagneticEmission: {"Electromagnetic Emission", FamilyDistributedEmission},
	PDUTypeDesignator:              {"Designator", FamilyDistributedEmission},
	PDUTypeTransmitter:             {"Transmitter", FamilyRadioCommunications},
	PDUTypeSignal:                  {"Signal", FamilyRadioCommunications},
	PDUTypeReceiver:                {"Receiver", FamilyRadioCommunications},
	PDUTypeIFF:                     {"IFF/ATC/NAVAIDS", FamilyDistributedEmission},
	PDUTypeUnderwaterAcoustic:      {"Underwater Acoustic", FamilyDistributedEmission},
	PDUTypeSupplementalEmission:    {"Supplemental Emission/Entity State", FamilyDistributedEmission},
	PDUTypeIntercomSignal:          {"Intercom Signal", FamilyRadioCommunications},
	PDUTypeIntercomControl:         {"Intercom Control", FamilyRadioCommunications},
	PDUTypeAggregateState:          {"Aggregate State", FamilyEntityManagement},
	PDUTypeIsGroupOf:               {"IsGroupOf", FamilyEntityManagement},
	PDUTypeTransferControl:         {"Transfer Control", FamilyEntityManagement},
	PDUTypeIsPartOf:                {"IsPartOf", FamilyEntityManagement},
	PDUTypeMinefieldState:          {"Minefield State", FamilyMinefield},
	PDUTypeMinefieldQuery:          {"Minefield Query", FamilyMinefield},
	PDUTypeMinefieldData:           {"Minefield Data", FamilyMinefield},
	PDUTypeMinefieldResponseNACK:   {"Minefield Response NAK", FamilyMinefield},
	PDUTypeEnvironmentalProcess:    {"Environmental Process", FamilySyntheticEnvironment},
	PDUTypeGriddedData:             {"Gridded Data", FamilySyntheticEnvironment},
	PDUTypePointObjectState:        {"Point Object State", FamilySyntheticEnvironment},
	PDUTypeLinearObjectState:       {"Linear Object State", FamilySyntheticEnvironment},
	PDUTypeArealObjectState:        {"Areal Object State", FamilySyntheticEnvironment},
	PDUTypeTSPI:                    {"TSPI", FamilyLiveEntity},
	PDUTypeAppearance:              {"Appearance", FamilyLiveEntity},
	PDUTypeArticulatedParts:        {"Articulated Parts", FamilyLiveEntity},
	PDUTypeLEFire:                  {"LE Fire", FamilyLiveEntity},
	PDUTypeLEDetonation:            {"LE Detonation", FamilyLiveEntity},
	PDUTypeCreateEntityR:           {"Create Entity-R", FamilySimulationManagementReliab},
	PDUTypeRemoveEntityR:           {"Remove Entity-R", FamilySimulationManagementReliab},
	PDUTypeStartResumeR:            {"Start/Resume-R", FamilySimulationManagementReliab},
	PDUTypeStopFreezeR:             {"Stop/Freeze-R", FamilySimulationManagementReliab},
	PDUTypeAcknowledgeR:            {"Acknowledge-R", FamilySimulationManagementReliab},
	PDUTypeActionRequestR:          {"Action Request-R", FamilySimulationManagementReliab},
	PDUTypeActionResponseR:         {"Action Response-R", FamilySimulationManagementReliab},
	PDUTypeDataQueryR:              {"Data Query-R", FamilySimulationManagementReliab},
	PDUTypeSetDataR:                {"Set Data-R", FamilySimulationManagementReliab},
	PDUTypeDataR:                   {"Data-R", FamilySimulationManagementReliab},
	PDUTypeEventReportR:            {"Event Report-R", FamilySimulationManagementReliab},
	PDUTypeCommentR:                {"Comment-R", FamilySimulationManagementReliab},
	PDUTypeRecordR:                 {"Record-R", FamilySimulationManagementReliab},
	PDUTypeSetRecordR:              {"Set Record-R", FamilySimulationManagementReliab},
	PDUTypeRecordQueryR:            {"Record Query-R", FamilySimulationManagementReliab},
	PDUTypeCollisionElastic:        {"Collision-Elastic", FamilyEntityInformation},
	PDUTypeEntityStateUpdate:       {"Entity State Update", FamilyEntityInformation},
}

func (t PDUType) String() string {
	if info, ok := pduTypes[t]; ok {
		return info.name
	}
	return fmt.Sprintf("unknown PDU type %d", uint8(t))
}

// Family returns the protocol family the PDU type belongs to. Unknown types
// report FamilyOther and false.
func (t PDUType) Family() (ProtocolFamily, bool) {
	info, ok := pduTypes[t]
	if !ok {
		return FamilyOther, false
	}
	return info.family, true
}

// Known reports whether t is listed in the PDU type table.
func (t PDUType) Known() bool {
	_, ok := pduTypes[t]
	return ok
}

func lookup[K ~uint8 | ~uint16 | ~uint32](names map[K]string, v K, what string) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("unknown %s %d", what, uint64(v))
}
