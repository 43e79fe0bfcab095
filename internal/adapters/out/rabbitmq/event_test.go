package rabbitmq_test

import (
	"encoding/json"
	"testing"
	"time"

	"exportflow/internal/adapters/out/rabbitmq"
	"exportflow/internal/core/domain/model/kernel"
	"exportflow/internal/core/domain/model/milestone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusEntry(t *testing.T) milestone.LogEntry {
	t.Helper()
	from, to := milestone.NotStarted, milestone.InProgress
	milestoneID := kernel.NewUUID()
	e, err := milestone.RestoreLogEntry(kernel.NewUUID(), kernel.NewUUID(), &milestoneID, kernel.SystemActorID,
		milestone.ActionAutoAdvanced, &from, &to, "started after po_confirmed was completed",
		time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return e
}

func TestNewEvent(t *testing.T) {
	t.Run("status change", func(t *testing.T) {
		e := statusEntry(t)

		ev := rabbitmq.NewEvent(e)

		assert.Equal(t, e.ID().String(), ev.ID)
		require.NotNil(t, ev.MilestoneID)
		assert.Equal(t, e.MilestoneID().String(), *ev.MilestoneID)
		assert.Equal(t, "auto_advanced", ev.Action)
		assert.Equal(t, "not_started", ev.FromStatus)
		assert.Equal(t, "in_progress", ev.ToStatus)
		assert.Equal(t, "milestone.auto_advanced", rabbitmq.RoutingKey(e))
	})

	t.Run("order level entry omits milestone and statuses", func(t *testing.T) {
		e, err := milestone.NewLogEntry(kernel.NewUUID(), nil, "user-admin", milestone.ActionRecalculated,
			"ship date moved to 2024-03-08", time.Date(2024, 2, 11, 16, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		body, err := json.Marshal(rabbitmq.NewEvent(e))
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.NotContains(t, decoded, "milestone_id")
		assert.NotContains(t, decoded, "from_status")
		assert.Equal(t, "recalculated", decoded["action"])
		assert.Equal(t, "2024-02-11T16:00:00Z", decoded["at"])
		assert.Equal(t, "milestone.recalculated", rabbitmq.RoutingKey(e))
	})
}
