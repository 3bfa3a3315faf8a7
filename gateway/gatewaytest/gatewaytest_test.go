package gatewaytest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpkit/bulkops/gateway"
)

func Test_Gateway_CreateAssignsSequentialNames(t *testing.T) {
	t.Parallel()

	gw := New()

	first, err := gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "A"})
	require.NoError(t, err)
	second, err := gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "B"})
	require.NoError(t, err)
	other, err := gw.Create(context.Background(), "Item", gateway.Document{"item_code": "X"})
	require.NoError(t, err)

	assert.Equal(t, "Customer-0001", first)
	assert.Equal(t, "Customer-0002", second)
	assert.Equal(t, "Item-0001", other)
}

func Test_Gateway_MutationsRequireExistingDoc(t *testing.T) {
	t.Parallel()

	gw := New()

	require.ErrorIs(t, gw.Update(context.Background(), "Customer", "CUST-0001", gateway.Document{"x": 1}), gateway.ErrNotFound)
	require.ErrorIs(t, gw.Delete(context.Background(), "Customer", "CUST-0001"), gateway.ErrNotFound)
	require.ErrorIs(t, gw.Submit(context.Background(), "Customer", "CUST-0001"), gateway.ErrNotFound)
	require.ErrorIs(t, gw.Cancel(context.Background(), "Customer", "CUST-0001"), gateway.ErrNotFound)
}

func Test_Gateway_UpdateMergesPatch(t *testing.T) {
	t.Parallel()

	gw := New()

	name, err := gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "A", "territory": "EU"})
	require.NoError(t, err)

	require.NoError(t, gw.Update(context.Background(), "Customer", name, gateway.Document{"territory": "US"}))

	doc, ok := gw.Doc("Customer", name)
	require.True(t, ok)
	assert.Equal(t, "US", doc["territory"])
	assert.Equal(t, "A", doc["customer_name"])
}

func Test_Gateway_ScriptedFailuresAreStickyUntilCleared(t *testing.T) {
	t.Parallel()

	gw := New()
	scripted := errors.New("scripted")
	gw.FailOn(CallCreate, "Customer", "", scripted)

	_, err := gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "A"})
	require.ErrorIs(t, err, scripted)
	_, err = gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "A"})
	require.ErrorIs(t, err, scripted)

	gw.FailOn(CallCreate, "Customer", "", nil)
	_, err = gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "A"})
	require.NoError(t, err)

	// Failed calls are still recorded.
	assert.Len(t, gw.CallsOf(CallCreate), 3)
}

func Test_Gateway_RecordsCallsInOrder(t *testing.T) {
	t.Parallel()

	gw := New()

	name, err := gw.Create(context.Background(), "Customer", gateway.Document{"customer_name": "A"})
	require.NoError(t, err)
	require.NoError(t, gw.Submit(context.Background(), "Customer", name))
	require.NoError(t, gw.Cancel(context.Background(), "Customer", name))
	require.NoError(t, gw.Delete(context.Background(), "Customer", name))

	calls := gw.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, CallCreate, calls[0].Kind)
	assert.Equal(t, CallSubmit, calls[1].Kind)
	assert.Equal(t, CallCancel, calls[2].Kind)
	assert.Equal(t, CallDelete, calls[3].Kind)
}
