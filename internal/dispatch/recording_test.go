package dispatch

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/support-triage/internal/category"
	"github.com/danielpatrickdp/support-triage/internal/store"
)

func TestRecordingServices(t *testing.T) {
	st, err := store.NewStore(filepath.Join(t.TempDir(), "triage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	d := NewDispatcher(NewRecordingServices(st))

	require.NoError(t, d.Dispatch(ctx, category.Complaint, testEmail, "We are sorry."))
	require.NoError(t, d.Dispatch(ctx, category.Feedback, testEmail, "Thank you."))

	tickets, err := st.ListTickets(ctx, "007")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, store.TicketUrgent, tickets[0].Kind)
	assert.Equal(t, "complaint", tickets[0].Category)
	assert.Equal(t, quoted, tickets[0].Context)

	responses, err := st.ListResponses(ctx, "007")
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, store.ResponseComplaint, responses[0].Kind)
	assert.Equal(t, store.ResponseStandard, responses[1].Kind)

	n, err := st.CountFeedback(ctx, "007")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, d.ReportFailure(ctx, "007", assert.AnError))
	tickets, err = st.ListTickets(ctx, "007")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, store.TicketSupport, tickets[1].Kind)
	assert.Equal(t, "Error: "+assert.AnError.Error(), tickets[1].Context)
}
