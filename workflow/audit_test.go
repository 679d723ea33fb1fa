package workflow

import (
	"testing"
	"time"

	"barangay-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailOrdering(t *testing.T) {
	db := newTestDB(t)
	sink := NewSink(db, testLogger(), nil)

	sink.Record(models.AuditEvent{RequestID: "r1", Kind: models.KindItemLoan, Action: "created", ActorID: "res-1", NewStatus: models.StatusPending})
	sink.Record(models.AuditEvent{RequestID: "r1", Kind: models.KindItemLoan, Action: "approve", ActorID: "adm-1", PriorStatus: models.StatusPending, NewStatus: models.StatusApproved})
	sink.Record(models.AuditEvent{RequestID: "r2", Kind: models.KindSOSAlert, Action: "created", ActorID: "res-2", NewStatus: models.StatusActive})

	trail, err := sink.Trail("r1")
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "created", trail[0].Action)
	assert.Equal(t, "approve", trail[1].Action)
}

func TestRecentExcludesCreations(t *testing.T) {
	db := newTestDB(t)
	sink := NewSink(db, testLogger(), nil)

	sink.Record(models.AuditEvent{RequestID: "r1", Kind: models.KindItemLoan, Action: "created", ActorID: "res-1", NewStatus: models.StatusPending})
	sink.Record(models.AuditEvent{RequestID: "r1", Kind: models.KindItemLoan, Action: "approve", ActorID: "adm-1", NewStatus: models.StatusApproved})
	sink.Record(models.AuditEvent{RequestID: "r2", Kind: models.KindItemLoan, Action: "reject", ActorID: "adm-1", NewStatus: models.StatusRejected})

	events, err := sink.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		assert.NotEqual(t, "created", ev.Action)
	}

	one, err := sink.Recent(1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestRecentClampsLimit(t *testing.T) {
	db := newTestDB(t)
	sink := NewSink(db, testLogger(), nil)

	for i := 0; i < 25; i++ {
		sink.Record(models.AuditEvent{RequestID: "r1", Kind: models.KindItemLoan, Action: "approve", ActorID: "adm-1", NewStatus: models.StatusApproved})
	}

	// An oversized limit is capped at 100, not reset to the default of 20.
	events, err := sink.Recent(150)
	require.NoError(t, err)
	assert.Len(t, events, 25)

	def, err := sink.Recent(0)
	require.NoError(t, err)
	assert.Len(t, def, 20)
}

func TestAuditFailureDoesNotFailTransition(t *testing.T) {
	db := newTestDB(t)
	e, sink, _ := newTestEngine(t, db)
	req := createItemLoan(t, e)

	// Break only the trail; the primary record must still commit.
	require.NoError(t, db.Migrator().DropTable(&models.AuditEvent{}))

	out, err := e.Transition(admin, req.Id, ActionApprove, Fields{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, out.Status)
	assert.Equal(t, models.StatusApproved, reload(t, db, req.Id).Status)

	_ = sink
}

type chanNotifier struct {
	ch chan models.AuditEvent
}

func (n chanNotifier) Notify(ev models.AuditEvent) { n.ch <- ev }

func TestNotifierReceivesEvents(t *testing.T) {
	db := newTestDB(t)
	ch := make(chan models.AuditEvent, 1)
	sink := NewSink(db, testLogger(), chanNotifier{ch: ch})

	sink.Record(models.AuditEvent{RequestID: "r1", Kind: models.KindSOSAlert, Action: "respond", ActorID: "adm-1", NewStatus: models.StatusResponded})

	select {
	case ev := <-ch:
		assert.Equal(t, "respond", ev.Action)
		assert.Equal(t, "r1", ev.RequestID)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier never received the event")
	}
}
