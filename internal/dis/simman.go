package dis

import "example.com/disgate/internal/ebv"

// simManHeader walks the header and the simulation management family fields.
func simManHeader(w walker, h *Header, f *SimulationManagementFamily) {
	h.walk(w)
	f.walk(w)
}

// datumLists walks the fixed and variable datum counts followed by both lists.
func datumLists(w walker, fixed *[]FixedDatum, variable *[]VariableDatum) {
	nf, nv := len(*fixed), len(*variable)
	w.count("numberOfFixedDatumRecords", 4, &nf)
	w.count("numberOfVariableDatumRecords", 4, &nv)
	w.list("fixedDatumRecords", nf, listOf(fixed))
	w.list("variableDatumRecords", nv, listOf(variable))
}

type CreateEntityPdu struct {
	Header
	SimulationManagementFamily
	RequestID uint32
}

func NewCreateEntityPdu() *CreateEntityPdu {
	return &CreateEntityPdu{Header: newHeader(ebv.PDUTypeCreateEntity)}
}

func (p *CreateEntityPdu) Kind() ebv.PDUType { return ebv.PDUTypeCreateEntity }

func (p *CreateEntityPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
}

type RemoveEntityPdu struct {
	Header
	SimulationManagementFamily
	RequestID uint32
}

func NewRemoveEntityPdu() *RemoveEntityPdu {
	return &RemoveEntityPdu{Header: newHeader(ebv.PDUTypeRemoveEntity)}
}

func (p *RemoveEntityPdu) Kind() ebv.PDUType { return ebv.PDUTypeRemoveEntity }

func (p *RemoveEntityPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
}

type StartResumePdu struct {
	Header
	SimulationManagementFamily
	RealWorldTime  ClockTime
	SimulationTime ClockTime
	RequestID      uint32
}

func NewStartResumePdu() *StartResumePdu {
	return &StartResumePdu{Header: newHeader(ebv.PDUTypeStartResume)}
}

func (p *StartResumePdu) Kind() ebv.PDUType { return ebv.PDUTypeStartResume }

func (p *StartResumePdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.record("realWorldTime", &p.RealWorldTime)
	w.record("simulationTime", &p.SimulationTime)
	w.u32("requestID", &p.RequestID)
}

type StopFreezePdu struct {
	Header
	SimulationManagementFamily
	RealWorldTime  ClockTime
	Reason         ebv.StopFreezeReason
	FrozenBehavior uint8
	RequestID      uint32
}

func NewStopFreezePdu() *StopFreezePdu {
	return &StopFreezePdu{Header: newHeader(ebv.PDUTypeStopFreeze)}
}

func (p *StopFreezePdu) Kind() ebv.PDUType { return ebv.PDUTypeStopFreeze }

func (p *StopFreezePdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.record("realWorldTime", &p.RealWorldTime)
	w.u8("reason", (*uint8)(&p.Reason))
	w.u8("frozenBehavior", &p.FrozenBehavior)
	w.pad("padding1", 2)
	w.u32("requestID", &p.RequestID)
}

type AcknowledgePdu struct {
	Header
	SimulationManagementFamily
	AcknowledgeFlag ebv.AcknowledgeFlag
	ResponseFlag    ebv.AcknowledgeResponse
	RequestID       uint32
}

func NewAcknowledgePdu() *AcknowledgePdu {
	return &AcknowledgePdu{Header: newHeader(ebv.PDUTypeAcknowledge)}
}

func (p *AcknowledgePdu) Kind() ebv.PDUType { return ebv.PDUTypeAcknowledge }

func (p *AcknowledgePdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u16("acknowledgeFlag", (*uint16)(&p.AcknowledgeFlag))
	w.u16("responseFlag", (*uint16)(&p.ResponseFlag))
	w.u32("requestID", &p.RequestID)
}

type ActionRequestPdu struct {
	Header
	SimulationManagementFamily
	RequestID      uint32
	ActionID       uint32
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewActionRequestPdu() *ActionRequestPdu {
	return &ActionRequestPdu{Header: newHeader(ebv.PDUTypeActionRequest)}
}

func (p *ActionRequestPdu) Kind() ebv.PDUType { return ebv.PDUTypeActionRequest }

func (p *ActionRequestPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
	w.u32("actionID", &p.ActionID)
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}

type ActionResponsePdu struct {
	Header
	SimulationManagementFamily
	RequestID      uint32
	RequestStatus  ebv.RequestStatus
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewActionResponsePdu() *ActionResponsePdu {
	return &ActionResponsePdu{Header: newHeader(ebv.PDUTypeActionResponse)}
}

func (p *ActionResponsePdu) Kind() ebv.PDUType { return ebv.PDUTypeActionResponse }

func (p *ActionResponsePdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
	w.u32("requestStatus", (*uint32)(&p.RequestStatus))
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}

type DataQueryPdu struct {
	Header
	SimulationManagementFamily
	RequestID      uint32
	TimeInterval   uint32
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewDataQueryPdu() *DataQueryPdu {
	return &DataQueryPdu{Header: newHeader(ebv.PDUTypeDataQuery)}
}

func (p *DataQueryPdu) Kind() ebv.PDUType { return ebv.PDUTypeDataQuery }

func (p *DataQueryPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
	w.u32("timeInterval", &p.TimeInterval)
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}

type SetDataPdu struct {
	Header
	SimulationManagementFamily
	RequestID      uint32
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewSetDataPdu() *SetDataPdu {
	return &SetDataPdu{Header: newHeader(ebv.PDUTypeSetData)}
}

func (p *SetDataPdu) Kind() ebv.PDUType { return ebv.PDUTypeSetData }

func (p *SetDataPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
	w.pad("padding1", 4)
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}

type DataPdu struct {
	Header
	SimulationManagementFamily
	RequestID      uint32
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewDataPdu() *DataPdu {
	return &DataPdu{Header: newHeader(ebv.PDUTypeData)}
}

func (p *DataPdu) Kind() ebv.PDUType { return ebv.PDUTypeData }

func (p *DataPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("requestID", &p.RequestID)
	w.pad("padding1", 4)
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}

type EventReportPdu struct {
	Header
	SimulationManagementFamily
	EventType      uint32
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewEventReportPdu() *EventReportPdu {
	return &EventReportPdu{Header: newHeader(ebv.PDUTypeEventReport)}
}

func (p *EventReportPdu) Kind() ebv.PDUType { return ebv.PDUTypeEventReport }

func (p *EventReportPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	w.u32("eventType", &p.EventType)
	w.pad("padding1", 4)
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}

type CommentPdu struct {
	Header
	SimulationManagementFamily
	FixedDatums    []FixedDatum
	VariableDatums []VariableDatum
}

func NewCommentPdu() *CommentPdu {
	return &CommentPdu{Header: newHeader(ebv.PDUTypeComment)}
}

func (p *CommentPdu) Kind() ebv.PDUType { return ebv.PDUTypeComment }

func (p *CommentPdu) walk(w walker) {
	simManHeader(w, &p.Header, &p.SimulationManagementFamily)
	datumLists(w, &p.FixedDatums, &p.VariableDatums)
}
