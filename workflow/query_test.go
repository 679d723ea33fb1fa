package workflow

import (
	"testing"

	"barangay-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRequests(t *testing.T, e *Engine) {
	t.Helper()
	// resident: two loans + one document request; otherResident: one loan.
	createItemLoan(t, e)
	createItemLoan(t, e)
	createDocumentRequest(t, e)
	mustCreate(t, e, otherResident, models.KindItemLoan,
		`{"item_id":9,"loan_days":3,"purpose":"birthday"}`)
}

func TestListScopesResidentsToOwnRequests(t *testing.T) {
	db := newTestDB(t)
	e, _, _ := newTestEngine(t, db)
	seedRequests(t, e)

	page, err := List(db, resident, Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	for _, r := range page.Requests {
		assert.Equal(t, resident.ID, r.RequesterID)
	}

	other, err := List(db, otherResident, Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, other.Total)
}

func TestListAdminSeesAllButForeignRelocations(t *testing.T) {
	db := newTestDB(t)
	e, _, _ := newTestEngine(t, db)
	seedRequests(t, e)
	createRelocation(t, e) // barangay 1 -> 2

	all, err := List(db, admin, Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 5, all.Total)

	// An admin of an uninvolved barangay sees the ordinary requests but not
	// the relocation.
	outside, err := List(db, outsideAdmin, Filters{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, outside.Total)
	for _, r := range outside.Requests {
		assert.NotEqual(t, models.KindRelocation, r.Kind)
	}
}

func TestCountsIgnoreStatusFilter(t *testing.T) {
	db := newTestDB(t)
	e, _, _ := newTestEngine(t, db)
	seedRequests(t, e)

	// Decide one of the loans so two statuses exist.
	first, err := List(db, resident, Filters{Kind: models.KindItemLoan})
	require.NoError(t, err)
	require.NotEmpty(t, first.Requests)
	_, err = e.Transition(admin, first.Requests[0].Id, ActionApprove, Fields{})
	require.NoError(t, err)

	page, err := List(db, resident, Filters{Status: models.StatusApproved})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	// The aggregate partitions the whole scope, not the filtered rows.
	assert.EqualValues(t, 2, page.Counts[models.StatusPending])
	assert.EqualValues(t, 1, page.Counts[models.StatusApproved])

	var sum int64
	for _, n := range page.Counts {
		sum += n
	}
	unfiltered, err := List(db, resident, Filters{})
	require.NoError(t, err)
	assert.Equal(t, unfiltered.Total, sum)
}

func TestListFiltersAndSearch(t *testing.T) {
	db := newTestDB(t)
	e, _, _ := newTestEngine(t, db)
	seedRequests(t, e)

	byKind, err := List(db, resident, Filters{Kind: models.KindDocumentRequest})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byKind.Total)

	// Summary search is case-insensitive.
	found, err := List(db, resident, Filters{Search: "CLEARANCE"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, found.Total)

	none, err := List(db, resident, Filters{Search: "indigency"})
	require.NoError(t, err)
	assert.EqualValues(t, 0, none.Total)
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	e, _, _ := newTestEngine(t, db)
	for i := 0; i < 5; i++ {
		createItemLoan(t, e)
	}

	page1, err := List(db, resident, Filters{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page1.Total)
	assert.Len(t, page1.Requests, 2)

	page3, err := List(db, resident, Filters{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page3.Requests, 1)
}

func TestGetEnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	e, _, _ := newTestEngine(t, db)
	req := createItemLoan(t, e)

	got, err := Get(db, resident, req.Id)
	require.NoError(t, err)
	assert.Equal(t, req.Id, got.Id)

	_, err = Get(db, otherResident, req.Id)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = Get(db, admin, req.Id)
	assert.NoError(t, err)

	_, err = Get(db, resident, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)

	// Admin visibility follows the listing scope: a relocation is invisible to
	// an uninvolved barangay's admin.
	reloc := createRelocation(t, e)
	_, err = Get(db, toAdmin, reloc.Id)
	assert.NoError(t, err)
	_, err = Get(db, outsideAdmin, reloc.Id)
	assert.ErrorIs(t, err, ErrForbidden)
}
