package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/types"
)

// fakeReviewStore routes each operation to a configurable function so tests
// can control timing and results per call.
type fakeReviewStore struct {
	listContacts    func(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error)
	listEquipment   func(ctx context.Context, p types.ListParams) ([]types.EquipmentRequest, int64, error)
	updateContact   func(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error)
	updateEquipment func(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error)
}

func (f *fakeReviewStore) ListContactRequests(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
	return f.listContacts(ctx, p)
}

func (f *fakeReviewStore) ListEquipmentRequests(ctx context.Context, p types.ListParams) ([]types.EquipmentRequest, int64, error) {
	return f.listEquipment(ctx, p)
}

func (f *fakeReviewStore) UpdateContactStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
	return f.updateContact(ctx, id, status)
}

func (f *fakeReviewStore) UpdateEquipmentStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error) {
	return f.updateEquipment(ctx, id, status)
}

func contactRows(n int) []types.ContactRequest {
	rows := make([]types.ContactRequest, n)
	for i := range rows {
		rows[i] = types.ContactRequest{ID: int64(i + 1), Name: "Иванов", ContactInfo: "Email: a@b.ru", Status: types.StatusNew}
	}
	return rows
}

func TestListContacts_RejectsUnknownStatusFilter(t *testing.T) {
	svc := NewReviewService(&fakeReviewStore{})

	_, err := svc.ListContacts(context.Background(), types.ListParams{StatusFilter: "archived", Page: 1})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.InvalidStatusError, appErr.Type)
}

func TestListContacts_RejectsForeignSortColumn(t *testing.T) {
	svc := NewReviewService(&fakeReviewStore{})

	_, err := svc.ListContacts(context.Background(), types.ListParams{
		Sort: types.SortSpec{Column: types.SortByEquipmentName, Order: types.SortAsc},
		Page: 1,
	})
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ValidationError, appErr.Type)
}

func TestListContacts_ReturnsPageInfo(t *testing.T) {
	store := &fakeReviewStore{
		listContacts: func(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
			return contactRows(10), 42, nil
		},
	}
	svc := NewReviewService(store)

	page, err := svc.ListContacts(context.Background(), types.ListParams{Sort: types.DefaultSort(), Page: 2})
	require.NoError(t, err)

	assert.Len(t, page.Items, 10)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Equal(t, int64(42), page.Pagination.Total)
	assert.Equal(t, 5, page.Pagination.TotalPages)
}

func TestListContacts_ClampsPagePastEnd(t *testing.T) {
	var requestedPages []int
	store := &fakeReviewStore{
		listContacts: func(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
			requestedPages = append(requestedPages, p.Page)
			if p.Page > 2 {
				return nil, 13, nil
			}
			return contactRows(3), 13, nil
		},
	}
	svc := NewReviewService(store)

	page, err := svc.ListContacts(context.Background(), types.ListParams{Sort: types.DefaultSort(), Page: 99})
	require.NoError(t, err)

	// The out-of-range page is retried once at the last real page.
	assert.Equal(t, []int{99, 2}, requestedPages)
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Len(t, page.Items, 3)
}

func TestListContacts_DiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	firstCall := true
	var mu sync.Mutex

	store := &fakeReviewStore{
		listContacts: func(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
			mu.Lock()
			slow := firstCall
			firstCall = false
			mu.Unlock()

			if slow {
				<-release
			}
			return contactRows(1), 1, nil
		},
	}
	svc := NewReviewService(store)

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = svc.ListContacts(context.Background(), types.DefaultListParams())
	}()

	// Give the slow fetch time to claim its sequence number, then let a
	// newer fetch complete before releasing it.
	time.Sleep(20 * time.Millisecond)
	_, err := svc.ListContacts(context.Background(), types.DefaultListParams())
	require.NoError(t, err)

	close(release)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrStaleSnapshot)
}

func TestFetchDashboard_FansOutToBothCollections(t *testing.T) {
	store := &fakeReviewStore{
		listContacts: func(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
			return contactRows(2), 12, nil
		},
		listEquipment: func(ctx context.Context, p types.ListParams) ([]types.EquipmentRequest, int64, error) {
			link := "exc-200"
			return []types.EquipmentRequest{{ID: 7, Name: "Иван", EquipmentLink: &link, Status: types.StatusNew}}, 7, nil
		},
	}
	svc := NewReviewService(store)

	snap, err := svc.FetchDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), snap.ContactTotal)
	assert.Equal(t, int64(7), snap.EquipmentTotal)
	assert.Len(t, snap.RecentContact, 2)
	assert.Len(t, snap.RecentEquipment, 1)
}

func TestFetchDashboard_PropagatesFetchError(t *testing.T) {
	store := &fakeReviewStore{
		listContacts: func(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
			return contactRows(1), 1, nil
		},
		listEquipment: func(ctx context.Context, p types.ListParams) ([]types.EquipmentRequest, int64, error) {
			return nil, 0, fmt.Errorf("postgrest: status 500")
		},
	}
	svc := NewReviewService(store)

	_, err := svc.FetchDashboard(context.Background())
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.DatabaseError, appErr.Type)
}

func TestUpdateContactStatus_RejectsInvalidStatus(t *testing.T) {
	svc := NewReviewService(&fakeReviewStore{})

	_, err := svc.UpdateContactStatus(context.Background(), 5, "archived")
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.InvalidStatusError, appErr.Type)
}

func TestUpdateContactStatus_Succeeds(t *testing.T) {
	store := &fakeReviewStore{
		updateContact: func(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
			return &types.ContactRequest{ID: id, Status: status}, nil
		},
	}
	svc := NewReviewService(store)

	updated, err := svc.UpdateContactStatus(context.Background(), 5, types.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, types.StatusClosed, updated.Status)
}

func TestUpdateContactStatus_ConcurrentUpdateConflicts(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	store := &fakeReviewStore{
		updateContact: func(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
			close(entered)
			<-release
			return &types.ContactRequest{ID: id, Status: status}, nil
		},
	}
	svc := NewReviewService(store)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.UpdateContactStatus(context.Background(), 5, types.StatusInProgress)
		assert.NoError(t, err)
	}()

	<-entered
	_, err := svc.UpdateContactStatus(context.Background(), 5, types.StatusClosed)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.ConflictError, appErr.Type)

	close(release)
	wg.Wait()

	// The slot is free again after the first update finishes.
	store.updateContact = func(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
		return &types.ContactRequest{ID: id, Status: status}, nil
	}
	_, err = svc.UpdateContactStatus(context.Background(), 5, types.StatusClosed)
	assert.NoError(t, err)
}

func TestUpdateEquipmentStatus_MapsNotFound(t *testing.T) {
	store := &fakeReviewStore{
		updateEquipment: func(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error) {
			return nil, fmt.Errorf("equipment request %d not found", id)
		},
	}
	svc := NewReviewService(store)

	_, err := svc.UpdateEquipmentStatus(context.Background(), 404, types.StatusClosed)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.NotFoundError, appErr.Type)
}

func TestUpdateStatus_DifferentRowsDoNotConflict(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	first := true
	var mu sync.Mutex

	store := &fakeReviewStore{
		updateContact: func(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
			mu.Lock()
			slow := first
			first = false
			mu.Unlock()
			if slow {
				close(entered)
				<-release
			}
			return &types.ContactRequest{ID: id, Status: status}, nil
		},
	}
	svc := NewReviewService(store)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.UpdateContactStatus(context.Background(), 1, types.StatusClosed)
		assert.NoError(t, err)
	}()

	<-entered
	_, err := svc.UpdateContactStatus(context.Background(), 2, types.StatusClosed)
	assert.NoError(t, err)

	close(release)
	wg.Wait()
}
