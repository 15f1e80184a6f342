package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     OrderStatus
		editable bool
	}{
		{"upper", `"PENDING"`, OrderStatusPending, true},
		{"lower", `"confirmed"`, OrderStatusConfirmed, true},
		{"alias", `"canceled"`, OrderStatusCancelled, false},
		{"ordinal", `3`, OrderStatusPaid, false},
		{"unknown name", `"REFUNDED"`, OrderStatusUnknown, false},
		{"unknown ordinal", `42`, OrderStatusUnknown, false},
		{"negative ordinal", `-1`, OrderStatusUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s OrderStatus
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.editable, s.Editable())
		})
	}
}

func TestOrderStatus_String(t *testing.T) {
	assert.Equal(t, "PAID", OrderStatusPaid.String())
	assert.Equal(t, "UNKNOWN", OrderStatusUnknown.String())
	assert.Equal(t, "UNKNOWN", OrderStatus(99).String())
}
