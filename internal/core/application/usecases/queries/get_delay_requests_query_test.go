package queries_test

import (
	"testing"

	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetDelayRequestsQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetDelayRequestsQuery(id, true)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, id, query.OrderID())
	assert.True(t, query.PendingOnly())

	_, err = queries.NewGetDelayRequestsQuery(kernel.UUID{}, false)
	require.Error(t, err)
}

func TestGetDelayRequestsQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetDelayRequestsQuery{}.Validate()
	assert.ErrorIs(t, err, queries.ErrGetDelayRequestsQueryIsNotConstructed)
}
