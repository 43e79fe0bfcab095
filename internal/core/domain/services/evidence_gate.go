package services

import (
	"slices"
	"strings"

	"exportflow/internal/core/domain/model/milestone"
)

// EvidenceGate compares the attachment inventory of a milestone with the
// document types its step requires.
type EvidenceGate struct{}

// NewEvidenceGate creates an EvidenceGate.
func NewEvidenceGate() EvidenceGate {
	return EvidenceGate{}
}

// Missing returns the required document types not yet attached, in the order
// they are required.
//
// Parameters:
//   - m: the milestone about to complete
//   - required: document types for m's step; empty means any attachment counts
//   - attachments: the inventory for m
//
// Returns:
//   - nil when m needs no evidence or everything is attached
//   - []string{AnyAttachment} when m needs evidence without a document list
//     and nothing is attached
func (g EvidenceGate) Missing(m *milestone.Milestone, required []string, attachments []milestone.Attachment) []string {
	if !m.EvidenceRequired() {
		return nil
	}

	own := slices.DeleteFunc(slices.Clone(attachments), func(a milestone.Attachment) bool {
		return !a.MilestoneID.IsEqual(m.ID())
	})

	if len(required) == 0 {
		if len(own) == 0 {
			return []string{AnyAttachment}
		}
		return nil
	}

	attached := make(map[string]bool, len(own))
	for _, a := range own {
		attached[strings.ToLower(a.DocumentType)] = true
	}

	var missing []string
	for _, doc := range required {
		if !attached[strings.ToLower(doc)] {
			missing = append(missing, doc)
		}
	}
	return missing
}

// Check returns an EvidenceMissingError when Missing is not empty.
func (g EvidenceGate) Check(m *milestone.Milestone, required []string, attachments []milestone.Attachment) error {
	if missing := g.Missing(m, required, attachments); len(missing) > 0 {
		return NewEvidenceMissingError(m.Step(), missing)
	}
	return nil
}
