package dis

import "example.com/disgate/internal/ebv"

func samplePDUs() []PDU {
	tank := EntityType{EntityKind: 1, Domain: 1, Country: 225, Category: 1, Subcategory: 1, Specific: 3}
	shell := EntityType{EntityKind: 2, Domain: 9, Country: 225, Category: 2, Subcategory: 14}
	origin := EntityID{Site: 1, Application: 3101, Entity: 7}
	target := EntityID{Site: 1, Application: 3101, Entity: 12}
	datums := func() ([]FixedDatum, []VariableDatum) {
		return []FixedDatum{{FixedDatumID: 10, FixedDatumValue: 4}},
			[]VariableDatum{{VariableDatumID: 20, Value: []byte("hello")}, {VariableDatumID: 21}}
	}

	es := NewEntityStatePdu()
	es.ExerciseID = 1
	es.Timestamp = 0x80000001
	es.EntityID = origin
	es.ForceID = ebv.ForceFriendly
	es.EntityType = tank
	es.EntityLinearVelocity = Vector3Float{X: 1.25, Y: -3, Z: 0.5}
	es.EntityLocation = Vector3Double{X: 4510234.5, Y: 5213.25, Z: 4496421.125}
	es.EntityOrientation = Orientation{Psi: 1.5, Theta: -2.25}
	es.EntityAppearance = 0x00010000
	es.DeadReckoningParameters.DeadReckoningAlgorithm = 4
	es.DeadReckoningParameters.OtherParameters[0] = 0xAA
	es.Marking = NewMarking("ALPHA 1")
	es.Capabilities = 3
	es.ArticulationParameters = []ArticulationParameter{
		{ParameterTypeDesignator: ebv.ArticulatedPart, PartAttachedTo: 0, ParameterType: 4096, ParameterValue: 0.75},
		{ParameterTypeDesignator: ebv.AttachedPart, ChangeIndicator: 1, ParameterType: 1, ParameterValue: -1},
	}

	fire := NewFirePdu()
	fire.FiringEntityID = origin
	fire.TargetEntityID = target
	fire.MunitionID = EntityID{Site: 1, Application: 3101, Entity: 900}
	fire.EventID = EventID{Site: 1, Application: 3101, EventNumber: 55}
	fire.FireMissionIndex = 2
	fire.LocationInWorldCoordinates = Vector3Double{X: 1, Y: 2, Z: 3}
	fire.BurstDescriptor = BurstDescriptor{Munition: shell, Warhead: 1000, Fuse: 1000, Quantity: 1, Rate: 0}
	fire.Velocity = Vector3Float{X: 800}
	fire.RangeToTarget = 2500

	det := NewDetonationPdu()
	det.FiringEntityID = origin
	det.TargetEntityID = target
	det.EventID = fire.EventID
	det.BurstDescriptor = fire.BurstDescriptor
	det.DetonationResult = 1
	det.ArticulationParameters = []ArticulationParameter{{ParameterType: 11, ParameterValue: 3}}

	col := NewCollisionPdu()
	col.IssuingEntityID = origin
	col.CollidingEntityID = target
	col.CollisionType = 1
	col.Mass = 61000
	col.Location = Vector3Float{Y: 2}

	create := NewCreateEntityPdu()
	create.OriginatingEntityID = origin
	create.ReceivingEntityID = target
	create.RequestID = 1
	remove := NewRemoveEntityPdu()
	remove.RequestID = 2
	start := NewStartResumePdu()
	start.RealWorldTime = ClockTime{Hour: 100, TimePastHour: 500}
	start.SimulationTime = ClockTime{Hour: -1, TimePastHour: 7}
	start.RequestID = 3
	stop := NewStopFreezePdu()
	stop.Reason = 2
	stop.FrozenBehavior = 1
	stop.RequestID = 4
	ack := NewAcknowledgePdu()
	ack.AcknowledgeFlag = 3
	ack.ResponseFlag = 1
	ack.RequestID = 3

	areq := NewActionRequestPdu()
	areq.RequestID, areq.ActionID = 5, 9
	areq.FixedDatums, areq.VariableDatums = datums()
	aresp := NewActionResponsePdu()
	aresp.RequestID, aresp.RequestStatus = 5, 4
	aresp.FixedDatums, aresp.VariableDatums = datums()
	query := NewDataQueryPdu()
	query.RequestID, query.TimeInterval = 6, 1000
	query.FixedDatums, _ = datums()
	set := NewSetDataPdu()
	set.RequestID = 7
	_, set.VariableDatums = datums()
	data := NewDataPdu()
	data.RequestID = 8
	data.FixedDatums, data.VariableDatums = datums()
	event := NewEventReportPdu()
	event.EventType = 2
	event.FixedDatums, event.VariableDatums = datums()
	comment := NewCommentPdu()
	comment.VariableDatums = []VariableDatum{{VariableDatumID: 1, Value: []byte("exercise paused by control")}}

	ee := NewElectromagneticEmissionPdu()
	ee.EmittingEntityID = origin
	ee.EventID = EventID{Site: 1, Application: 3101, EventNumber: 56}
	ee.StateUpdateIndicator = 1
	ee.Systems = []EmissionSystem{{
		EmitterSystem: EmitterSystem{EmitterName: 2530, Function: 1, EmitterIDNumber: 1},
		Location:      Vector3Float{Z: 3.5},
		Beams: []EmitterBeam{
			{
				BeamIDNumber:             1,
				BeamParameterIndex:       4,
				FundamentalParameterData: FundamentalParameterData{Frequency: 9.4e9, EffectiveRadiatedPower: 70},
				BeamFunction:             1,
				JammingModeSequence:      0,
				TrackJamTargets:          []TrackJamTarget{{TrackJam: target, EmitterID: 1, BeamID: 1}},
			},
			{BeamIDNumber: 2, BeamFunction: 4},
		},
	}}

	tx := NewTransmitterPdu()
	tx.EntityID = origin
	tx.RadioID = 1
	tx.RadioEntityType = RadioEntityType{EntityKind: 7, Domain: 1, Country: 225, Category: 1, NomenclatureVersion: 1, Nomenclature: 46}
	tx.TransmitState = 2
	tx.InputSource = 1
	tx.AntennaLocation = Vector3Double{X: 10, Y: 20, Z: 30}
	tx.Frequency = 225000000
	tx.TransmitFrequencyBandwidth = 25000
	tx.Power = 40
	tx.ModulationType = ModulationType{Major: 1, Detail: 2, System: 1}
	tx.ModulationParameters = []byte{1, 2, 3, 4, 5, 6, 7, 8}
	tx.AntennaPatternParameters = []byte{0xA, 0xB, 0xC}

	sig := NewSignalPdu()
	sig.EntityID = origin
	sig.RadioID = 1
	sig.EncodingScheme = 0x0004
	sig.SampleRate = 8000
	sig.Samples = 3
	sig.Data = []byte{0x10, 0x20, 0x30, 0x40, 0x50, 0x60}

	rx := NewReceiverPdu()
	rx.EntityID = target
	rx.RadioID = 1
	rx.ReceiverState = 2
	rx.ReceivedPower = -70.5
	rx.TransmitterEntityID = origin
	rx.TransmitterRadioID = 1

	ic := NewIntercomSignalPdu()
	ic.EntityID = origin
	ic.CommunicationsDeviceID = 4
	ic.EncodingScheme = 0x0001
	ic.SampleRate = 16000
	ic.Samples = 1
	ic.Data = []byte{1, 2, 3}

	esu := NewEntityStateUpdatePdu()
	esu.EntityID = origin
	esu.EntityLocation = es.EntityLocation
	esu.EntityOrientation = Orientation{Phi: 0.25}
	esu.ArticulationParameters = es.ArticulationParameters[:1]

	return []PDU{es, fire, det, col, create, remove, start, stop, ack, areq, aresp, query, set, data, event, comment, ee, tx, sig, rx, ic, esu}
}
