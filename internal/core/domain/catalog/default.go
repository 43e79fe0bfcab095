package catalog

import (
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/model/order"
)

const (
	// bookingLeadFOB and bookingLeadDDP are the vessel booking leads before
	// the anchor. DDP anchors on warehouse arrival, which is further out.
	bookingLeadFOB = 7
	bookingLeadDDP = 14

	// customPackagingExtraDays covers artwork approval and printing.
	customPackagingExtraDays = 5
)

func defaultTemplates() []Template {
	return []Template{
		{
			Definition: milestone.Definition{
				Step: milestone.POConfirmed, Name: "PO confirmed", Role: kernel.RoleMerchandiser,
				Required: true, Critical: true, EvidenceRequired: true,
			},
			Offset: OffsetRule{Anchor: AnchorOrderCreated, OffsetDays: 1},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.FinanceApproved, Name: "Finance approval", Role: kernel.RoleFinance,
				Required: true, Critical: true,
				Predecessors: []milestone.StepKey{milestone.POConfirmed},
			},
			Offset: OffsetRule{Anchor: AnchorOrderCreated, OffsetDays: 2},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.TechPackConfirmed, Name: "Tech pack confirmed", Role: kernel.RoleMerchandiser,
				Required: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.POConfirmed},
			},
			Offset: OffsetRule{Anchor: AnchorOrderCreated, OffsetDays: 3},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.FabricOrdered, Name: "Fabric ordered", Role: kernel.RoleProcurement,
				Required: true, Critical: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.FinanceApproved, milestone.TechPackConfirmed},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -35},
		},
		{
			// No document list: completion needs at least one attachment.
			Definition: milestone.Definition{
				Step: milestone.TrimsOrdered, Name: "Trims ordered", Role: kernel.RoleProcurement,
				Required: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.FinanceApproved, milestone.TechPackConfirmed},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -30},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.PackagingReady, Name: "Packaging ready", Role: kernel.RoleProcurement,
				Required: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.TrimsOrdered},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -20, CustomPackagingExtraDays: customPackagingExtraDays},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.MaterialsReceived, Name: "Materials received", Role: kernel.RoleWarehouse,
				Required: true, Critical: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.FabricOrdered, milestone.TrimsOrdered},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -23},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.PPSampleSent, Name: "PP sample sent", Role: kernel.RoleMerchandiser,
				Required: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.TechPackConfirmed},
			},
			Offset: OffsetRule{
				Anchor:             AnchorShip,
				OffsetDays:         -5,
				DerivedFrom:        derivedFrom(milestone.ProductionStart),
				FallbackOffsetDays: -26,
			},
			Include: requiresPPSample,
		},
		{
			Definition: milestone.Definition{
				Step: milestone.PPSampleApproved, Name: "PP sample approved", Role: kernel.RoleMerchandiser,
				Required: true, Critical: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.PPSampleSent},
			},
			Offset: OffsetRule{
				Anchor:             AnchorShip,
				OffsetDays:         -2,
				DerivedFrom:        derivedFrom(milestone.ProductionStart),
				FallbackOffsetDays: -23,
			},
			Include: requiresPPSample,
		},
		{
			Definition: milestone.Definition{
				Step: milestone.ProductionStart, Name: "Production start", Role: kernel.RoleProduction,
				Required: true, Critical: true,
				Predecessors: []milestone.StepKey{milestone.MaterialsReceived, milestone.PPSampleApproved},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -21},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.InlineInspection, Name: "Inline inspection", Role: kernel.RoleQC,
				EvidenceRequired: true,
				Predecessors:     []milestone.StepKey{milestone.ProductionStart},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -12},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.ProductionComplete, Name: "Production complete", Role: kernel.RoleProduction,
				Required: true, Critical: true,
				Predecessors: []milestone.StepKey{milestone.ProductionStart},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: -7},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.FinalInspection, Name: "Final inspection", Role: kernel.RoleQC,
				Required: true, Critical: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.ProductionComplete},
			},
			Offset: OffsetRule{
				Anchor:             AnchorShip,
				OffsetDays:         2,
				DerivedFrom:        derivedFrom(milestone.ProductionComplete),
				FallbackOffsetDays: -5,
			},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.BookingConfirmed, Name: "Booking confirmed", Role: kernel.RoleLogistics,
				Required: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.FinanceApproved},
			},
			Offset: OffsetRule{
				Anchor:     AnchorShip,
				OffsetDays: -bookingLeadFOB,
				TradeTermLeads: map[order.TradeTerm]int{
					order.FOB: bookingLeadFOB,
					order.DDP: bookingLeadDDP,
				},
			},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.CustomsDocsReady, Name: "Customs documents ready", Role: kernel.RoleLogistics,
				Required: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.FinalInspection, milestone.BookingConfirmed},
			},
			Offset: OffsetRule{
				Anchor:             AnchorShip,
				OffsetDays:         -2,
				DerivedFrom:        derivedFrom(milestone.ShipmentHandover),
				FallbackOffsetDays: -2,
			},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.ShipmentHandover, Name: "Shipment handover", Role: kernel.RoleLogistics,
				Required: true, Critical: true, EvidenceRequired: true,
				Predecessors: []milestone.StepKey{milestone.CustomsDocsReady},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: 0},
		},
		{
			Definition: milestone.Definition{
				Step: milestone.PaymentReceived, Name: "Payment received", Role: kernel.RoleFinance,
				Predecessors: []milestone.StepKey{milestone.ShipmentHandover},
			},
			Offset: OffsetRule{Anchor: AnchorShip, OffsetDays: 10},
		},
	}
}
