package milestone_test

import (
	"testing"

	"exportflow/internal/core/domain/model/milestone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_TransitionTable(t *testing.T) {
	legal := map[milestone.Status][]milestone.Status{
		milestone.NotStarted: {milestone.InProgress, milestone.Blocked},
		milestone.InProgress: {milestone.Blocked, milestone.Done},
		milestone.Blocked:    {milestone.InProgress},
		milestone.Done:       {},
	}
	all := []milestone.Status{milestone.NotStarted, milestone.InProgress, milestone.Blocked, milestone.Done}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}

			t.Run(from.String()+" to "+to.String(), func(t *testing.T) {
				got, err := from.TransitionTo(to)
				if want {
					require.NoError(t, err)
					assert.Equal(t, to, got)
					return
				}

				var notAllowed *milestone.TransitionNotAllowedError
				require.ErrorAs(t, err, &notAllowed)
				assert.Equal(t, from, notAllowed.From)
				assert.Equal(t, to, notAllowed.To)
				assert.Equal(t, legal[from], notAllowed.Allowed)
			})
		}
	}
}

func TestStatus_DoneIsAbsorbing(t *testing.T) {
	assert.True(t, milestone.Done.IsTerminal())
	assert.Empty(t, milestone.Done.AllowedTargets())

	for _, to := range []milestone.Status{milestone.NotStarted, milestone.InProgress, milestone.Blocked, milestone.Done} {
		_, err := milestone.Done.TransitionTo(to)
		require.ErrorIs(t, err, milestone.ErrTransitionNotAllowed)
	}
}

func TestTransitionNotAllowedError_Message(t *testing.T) {
	t.Run("names allowed targets", func(t *testing.T) {
		err := milestone.NewTransitionNotAllowedError(milestone.NotStarted, milestone.Done)

		assert.Equal(t, "transition not allowed: not_started -> done (allowed: in_progress, blocked)", err.Error())
	})

	t.Run("terminal status allows none", func(t *testing.T) {
		err := milestone.NewTransitionNotAllowedError(milestone.Done, milestone.InProgress)

		assert.Equal(t, "transition not allowed: done -> in_progress (allowed: none)", err.Error())
	})
}

func TestParseStatus(t *testing.T) {
	s, err := milestone.ParseStatus("In_Progress")
	require.NoError(t, err)
	assert.Equal(t, milestone.InProgress, s)

	_, err = milestone.ParseStatus("paused")
	require.Error(t, err)

	require.Error(t, milestone.Unknown.Validate())
	assert.Equal(t, "unknown", milestone.Status(99).String())
}

func TestStatus_TransitionToUnknownTarget(t *testing.T) {
	_, err := milestone.NotStarted.TransitionTo(milestone.Unknown)

	require.Error(t, err)
	assert.NotErrorIs(t, err, milestone.ErrTransitionNotAllowed)
}
