package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw     string
		want    OrderStatus
		wantErr bool
	}{
		{raw: "pending", want: StatusPending},
		{raw: "processing", want: StatusProcessing},
		{raw: "shipped", want: StatusShipped},
		{raw: "delivered", want: StatusDelivered},
		{raw: "cancelled", want: StatusCancelled},
		{raw: "completed", want: StatusCompleted},
		{raw: "canceled", want: StatusCancelled},
		{raw: "refunded", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "PENDING", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeStatus(tt.raw)
			if tt.wantErr {
				var invalid *InvalidInputError
				require.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderItemSubtotal(t *testing.T) {
	it := OrderItem{ProductID: "p1", Quantity: 3, UnitPrice: 2.5}
	assert.Equal(t, 7.5, it.Subtotal())
}
