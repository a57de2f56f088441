package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"gallery/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := entity.ParseDate("2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, entity.NewDate(2025, time.January, 1), d)
	assert.Equal(t, "2025-01-01", d.String())

	for _, bad := range []string{"", "01/02/2025", "2025-13-01", "2025-01-01T00:00:00Z"} {
		_, err = entity.ParseDate(bad)
		require.ErrorIs(t, err, entity.ErrInvalidData, bad)
	}
}

func TestDate_JSON(t *testing.T) {
	t.Parallel()

	order := entity.Order{ID: "o1", CustomerID: "c1", OrderDate: entity.NewDate(2025, time.March, 14)}

	encoded, err := json.Marshal(order)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id_order":"o1","id_customer":"c1","order_date":"2025-03-14"}`, string(encoded))

	var decoded entity.Order
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.True(t, order.OrderDate.Equal(decoded.OrderDate.Time))
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	t.Parallel()

	var order entity.Order
	err := json.Unmarshal([]byte(`{"order_date":"14.03.2025"}`), &order)
	require.ErrorIs(t, err, entity.ErrInvalidData)

	err = json.Unmarshal([]byte(`{"order_date":20250314}`), &order)
	require.ErrorIs(t, err, entity.ErrInvalidData)

	order = entity.Order{}
	require.NoError(t, json.Unmarshal([]byte(`{"order_date":null}`), &order))
	assert.True(t, order.OrderDate.IsZero())
}
