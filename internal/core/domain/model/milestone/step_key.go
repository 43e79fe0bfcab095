package milestone

import (
	"fmt"
	"slices"

	"exportflow/internal/pkg/errs"
)

// StepKey identifies a milestone template. The set is closed: templates,
// predecessor references and derived-date references all use these values and
// are checked when the catalog is built.
type StepKey string

const (
	POConfirmed        StepKey = "po_confirmed"
	FinanceApproved    StepKey = "finance_approved"
	TechPackConfirmed  StepKey = "tech_pack_confirmed"
	FabricOrdered      StepKey = "fabric_ordered"
	TrimsOrdered       StepKey = "trims_ordered"
	PackagingReady     StepKey = "packaging_ready"
	MaterialsReceived  StepKey = "materials_received"
	PPSampleSent       StepKey = "pp_sample_sent"
	PPSampleApproved   StepKey = "pp_sample_approved"
	ProductionStart    StepKey = "production_start"
	InlineInspection   StepKey = "inline_inspection"
	ProductionComplete StepKey = "production_complete"
	FinalInspection    StepKey = "final_inspection"
	BookingConfirmed   StepKey = "booking_confirmed"
	CustomsDocsReady   StepKey = "customs_docs_ready"
	ShipmentHandover   StepKey = "shipment_handover"
	PaymentReceived    StepKey = "payment_received"
)

var knownStepKeys = []StepKey{
	POConfirmed,
	FinanceApproved,
	TechPackConfirmed,
	FabricOrdered,
	TrimsOrdered,
	PackagingReady,
	MaterialsReceived,
	PPSampleSent,
	PPSampleApproved,
	ProductionStart,
	InlineInspection,
	ProductionComplete,
	FinalInspection,
	BookingConfirmed,
	CustomsDocsReady,
	ShipmentHandover,
	PaymentReceived,
}

// StepKeys returns every known key in execution order.
func StepKeys() []StepKey {
	return slices.Clone(knownStepKeys)
}

// ParseStepKey converts s into a known StepKey.
func ParseStepKey(s string) (StepKey, error) {
	k := StepKey(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// Validate returns ValueIsInvalidError for keys outside the closed set.
func (k StepKey) Validate() error {
	if !slices.Contains(knownStepKeys, k) {
		return errs.NewValueIsInvalidErrorWithCause("step key", fmt.Errorf("%q is not a known step", string(k)))
	}
	return nil
}

func (k StepKey) String() string {
	return string(k)
}
