package services_test

import (
	"testing"
	"time"

	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/model/milestone"
	"exportflow/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func attachment(t *testing.T, m *milestone.Milestone, docType string) milestone.Attachment {
	t.Helper()
	a, err := milestone.NewAttachment(m.ID(), docType, docType+".pdf", time.Now())
	require.NoError(t, err)
	return a
}

func TestEvidenceGate(t *testing.T) {
	gate := services.NewEvidenceGate()
	all := buildMilestones(t, bulkFOB())
	docs := catalog.Default().RequiredDocuments

	t.Run("step without evidence needs nothing", func(t *testing.T) {
		m := find(all, milestone.FinanceApproved)

		assert.Empty(t, gate.Missing(m, docs(m.Step()), nil))
	})

	t.Run("lists every missing document type", func(t *testing.T) {
		m := find(all, milestone.FinalInspection)

		err := gate.Check(m, docs(m.Step()), []milestone.Attachment{attachment(t, m, "inspection_report")})

		var missing *services.EvidenceMissingError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, milestone.FinalInspection, missing.Milestone)
		assert.Equal(t, []string{"packing_list"}, missing.Missing)
		assert.Equal(t, "evidence missing: final_inspection needs packing_list", err.Error())
	})

	t.Run("complete inventory passes", func(t *testing.T) {
		m := find(all, milestone.FinalInspection)

		err := gate.Check(m, docs(m.Step()), []milestone.Attachment{
			attachment(t, m, "packing_list"),
			attachment(t, m, "Inspection_Report"),
		})

		assert.NoError(t, err)
	})

	t.Run("attachments of other milestones do not count", func(t *testing.T) {
		m := find(all, milestone.ShipmentHandover)
		other := find(all, milestone.CustomsDocsReady)

		missing := gate.Missing(m, docs(m.Step()), []milestone.Attachment{attachment(t, other, "bill_of_lading")})

		assert.Equal(t, []string{"bill_of_lading"}, missing)
	})

	t.Run("step without document list needs one attachment", func(t *testing.T) {
		m := find(all, milestone.TrimsOrdered)

		assert.Equal(t, []string{services.AnyAttachment}, gate.Missing(m, docs(m.Step()), nil))
		assert.Empty(t, gate.Missing(m, docs(m.Step()), []milestone.Attachment{attachment(t, m, "photo")}))
	})
}
