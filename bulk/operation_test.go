package bulk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpkit/bulkops/gateway"
)

func Test_ExecutionRequest_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		payload      string
		wantRollback bool
	}{
		{
			name:         "rollback defaults to true when absent",
			payload:      `{"operations": [{"type": "delete", "doctype": "Customer", "name": "CUST-0001"}]}`,
			wantRollback: true,
		},
		{
			name:         "explicit true",
			payload:      `{"operations": [], "rollback_on_error": true}`,
			wantRollback: true,
		},
		{
			name:         "explicit false",
			payload:      `{"operations": [], "rollback_on_error": false}`,
			wantRollback: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var req ExecutionRequest
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &req))
			assert.Equal(t, tt.wantRollback, req.RollbackOnError)
		})
	}
}

func Test_ExecutionRequest_UnmarshalJSON_Operations(t *testing.T) {
	t.Parallel()

	payload := `{
		"operations": [
			{"type": "create", "doctype": "Customer", "doc": {"customer_name": "Acme"}},
			{"type": "update", "doctype": "Customer", "name": "CUST-0001", "patch": {"territory": "US"}}
		]
	}`

	var req ExecutionRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))

	require.Len(t, req.Operations, 2)
	assert.Equal(t, NewCreate("Customer", gateway.Document{"customer_name": "Acme"}), req.Operations[0])
	assert.Equal(t, NewUpdate("Customer", "CUST-0001", gateway.Document{"territory": "US"}), req.Operations[1])
}

func Test_NewRequest_EnablesRollback(t *testing.T) {
	t.Parallel()

	req := NewRequest(NewDelete("Customer", "CUST-0001"))
	assert.True(t, req.RollbackOnError)
}

func Test_Error_Error(t *testing.T) {
	t.Parallel()

	err := &Error{Code: CodePermissionDenied, Message: "not permitted"}
	assert.Equal(t, "PERMISSION_DENIED: not permitted", err.Error())
}
