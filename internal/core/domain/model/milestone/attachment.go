package milestone

import (
	"strings"
	"time"

	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/pkg/errs"
)

// Attachment is one uploaded evidence file as reported by the evidence
// inventory. Files are stored elsewhere; only their metadata is known here.
type Attachment struct {
	MilestoneID  kernel.UUID
	DocumentType string
	Name         string
	UploadedAt   time.Time
}

// NewAttachment normalizes the document type to lower case.
func NewAttachment(milestoneID kernel.UUID, documentType, name string, uploadedAt time.Time) (Attachment, error) {
	documentType = strings.ToLower(strings.TrimSpace(documentType))
	if err := milestoneID.Validate(); err != nil {
		return Attachment{}, err
	}
	if documentType == "" {
		return Attachment{}, errs.NewValueIsRequiredError("document type")
	}
	if strings.TrimSpace(name) == "" {
		return Attachment{}, errs.NewValueIsRequiredError("attachment name")
	}
	return Attachment{
		MilestoneID:  milestoneID,
		DocumentType: documentType,
		Name:         name,
		UploadedAt:   uploadedAt.UTC(),
	}, nil
}
