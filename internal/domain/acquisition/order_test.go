package acquisition

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order, err := NewOrder(uuid.New(), uuid.New(), "2026-00001", uuid.New(), OrderTypeMonograph)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00001", order.Reference())

	_, err = NewOrder(uuid.New(), uuid.New(), "", uuid.New(), OrderTypeMonograph)
	assert.Error(t, err)

	_, err = NewOrder(uuid.New(), uuid.New(), "2026-00002", uuid.Nil, OrderTypeMonograph)
	assert.Error(t, err)

	_, err = NewOrder(uuid.New(), uuid.New(), "2026-00003", uuid.New(), OrderType("bogus"))
	assert.Error(t, err)

	// Empty type defaults to monograph
	order, err = NewOrder(uuid.New(), uuid.New(), "2026-00004", uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, OrderTypeMonograph, order.Type)
}

func TestDeriveOrderStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []OrderLineStatus
		want     OrderStatus
	}{
		{"no lines", nil, OrderStatusPending},
		{"single approved", []OrderLineStatus{OrderLineStatusApproved}, OrderStatusPending},
		{"single ordered", []OrderLineStatus{OrderLineStatusOrdered}, OrderStatusOrdered},
		{"single partial", []OrderLineStatus{OrderLineStatusPartiallyReceived}, OrderStatusPartiallyReceived},
		{"single received", []OrderLineStatus{OrderLineStatusReceived}, OrderStatusReceived},
		{"all cancelled", []OrderLineStatus{OrderLineStatusCancelled, OrderLineStatusCancelled}, OrderStatusCancelled},
		{
			"cancelled ignored next to ordered",
			[]OrderLineStatus{OrderLineStatusCancelled, OrderLineStatusOrdered},
			OrderStatusOrdered,
		},
		{
			"cancelled ignored next to approved",
			[]OrderLineStatus{OrderLineStatusCancelled, OrderLineStatusApproved},
			OrderStatusPending,
		},
		{
			"mixed approved and ordered",
			[]OrderLineStatus{OrderLineStatusApproved, OrderLineStatusOrdered},
			OrderStatusOrdered,
		},
		{
			"any received makes it partial",
			[]OrderLineStatus{OrderLineStatusOrdered, OrderLineStatusReceived},
			OrderStatusPartiallyReceived,
		},
		{
			"partial dominates",
			[]OrderLineStatus{OrderLineStatusApproved, OrderLineStatusPartiallyReceived, OrderLineStatusCancelled},
			OrderStatusPartiallyReceived,
		},
		{
			"received plus cancelled only",
			[]OrderLineStatus{OrderLineStatusReceived, OrderLineStatusCancelled},
			OrderStatusReceived,
		},
		{
			"full mix",
			[]OrderLineStatus{
				OrderLineStatusApproved, OrderLineStatusOrdered,
				OrderLineStatusReceived, OrderLineStatusCancelled,
			},
			OrderStatusPartiallyReceived,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveOrderStatus(tt.statuses))
			// Deterministic: same multiset, same result
			assert.Equal(t, tt.want, DeriveOrderStatus(tt.statuses))
		})
	}
}

func TestOrder_AddNote(t *testing.T) {
	order, err := NewOrder(uuid.New(), uuid.New(), "2026-00001", uuid.New(), OrderTypeSerial)
	require.NoError(t, err)

	require.NoError(t, order.AddNote(NoteTypeStaff, "internal remark"))
	assert.Error(t, order.AddNote(NoteTypeStaff, "duplicate"))
	require.NoError(t, order.AddNote(NoteTypeVendor, "for the vendor"))
	assert.Len(t, order.Notes, 2)
}

func TestOrder_OrderDate(t *testing.T) {
	order, err := NewOrder(uuid.New(), uuid.New(), "2026-00001", uuid.New(), OrderTypeMonograph)
	require.NoError(t, err)

	assert.Nil(t, order.OrderDate(nil))

	early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)

	lines := []OrderLine{
		{OrderDate: &late},
		{OrderDate: nil},
		{OrderDate: &early},
	}
	got := order.OrderDate(lines)
	require.NotNil(t, got)
	assert.Equal(t, early, *got)
}
