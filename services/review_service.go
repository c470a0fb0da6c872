package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	apperrors "github.com/business-partner/leads-backend/errors"
	"github.com/business-partner/leads-backend/internal/store"
	"github.com/business-partner/leads-backend/logger"
	"github.com/business-partner/leads-backend/types"
)

// ErrStaleSnapshot marks a fetch that was superseded by a newer one before
// it completed. Callers drop the result; the newer fetch's result is the
// one that reaches the screen.
var ErrStaleSnapshot = errors.New("snapshot superseded by a newer request")

// ContactPage is one page of contact leads with pagination metadata.
type ContactPage struct {
	Items      []types.ContactRequest `json:"items"`
	Pagination *types.PageInfo        `json:"pagination"`
}

// EquipmentPage is one page of equipment leads with pagination metadata.
type EquipmentPage struct {
	Items      []types.EquipmentRequest `json:"items"`
	Pagination *types.PageInfo          `json:"pagination"`
}

// DashboardSnapshot aggregates both collections for the admin landing page.
type DashboardSnapshot struct {
	ContactTotal    int64                    `json:"contact_total"`
	EquipmentTotal  int64                    `json:"equipment_total"`
	RecentContact   []types.ContactRequest   `json:"recent_contact"`
	RecentEquipment []types.EquipmentRequest `json:"recent_equipment"`
}

// ReviewService serves the admin review area. Reads are sequence-tagged so
// a slow response never overwrites a newer one, and status updates are
// serialized per row.
type ReviewService struct {
	store store.ReviewStore

	contactSeq   atomic.Uint64
	equipmentSeq atomic.Uint64
	dashboardSeq atomic.Uint64

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewReviewService(reviewStore store.ReviewStore) *ReviewService {
	return &ReviewService{
		store:    reviewStore,
		inFlight: make(map[string]struct{}),
	}
}

// normalizeParams validates the filter and fills defaults. An unrecognized
// status filter or sort column is rejected before any fetch happens.
func normalizeParams(kind types.LeadKind, p types.ListParams) (types.ListParams, *apperrors.AppError) {
	if p.StatusFilter != "" && !p.StatusFilter.Valid() {
		return p, apperrors.InvalidStatus(string(p.StatusFilter))
	}
	if p.Sort.Column == "" {
		p.Sort = types.DefaultSort()
	}
	if !p.Sort.ValidFor(kind) {
		return p, apperrors.ValidationFailed("Invalid sort", fmt.Sprintf("Sort %s.%s is not valid for %s requests", p.Sort.Column, p.Sort.Order, kind))
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p, nil
}

// ListContacts returns one page of contact leads. A page past the end of
// the filtered collection clamps to the last page and refetches once.
func (s *ReviewService) ListContacts(ctx context.Context, p types.ListParams) (*ContactPage, error) {
	p, appErr := normalizeParams(types.LeadKindContact, p)
	if appErr != nil {
		return nil, appErr
	}

	seq := s.contactSeq.Add(1)

	items, total, err := s.store.ListContactRequests(ctx, p)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	// Shrunken collection: the requested page no longer exists.
	if clamped := types.ClampPage(p.Page, types.TotalPages(total)); clamped != p.Page {
		p.Page = clamped
		items, total, err = s.store.ListContactRequests(ctx, p)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
	}

	if s.contactSeq.Load() != seq {
		return nil, ErrStaleSnapshot
	}

	return &ContactPage{
		Items:      items,
		Pagination: types.NewPageInfo(p.Page, total),
	}, nil
}

// ListEquipment returns one page of equipment leads with the same clamp
// and stale-discard semantics as ListContacts.
func (s *ReviewService) ListEquipment(ctx context.Context, p types.ListParams) (*EquipmentPage, error) {
	p, appErr := normalizeParams(types.LeadKindEquipment, p)
	if appErr != nil {
		return nil, appErr
	}

	seq := s.equipmentSeq.Add(1)

	items, total, err := s.store.ListEquipmentRequests(ctx, p)
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if clamped := types.ClampPage(p.Page, types.TotalPages(total)); clamped != p.Page {
		p.Page = clamped
		items, total, err = s.store.ListEquipmentRequests(ctx, p)
		if err != nil {
			return nil, apperrors.NewDatabaseError(err)
		}
	}

	if s.equipmentSeq.Load() != seq {
		return nil, ErrStaleSnapshot
	}

	return &EquipmentPage{
		Items:      items,
		Pagination: types.NewPageInfo(p.Page, total),
	}, nil
}

// FetchDashboard loads the first page of both collections concurrently and
// returns totals plus the most recent leads of each kind.
func (s *ReviewService) FetchDashboard(ctx context.Context) (*DashboardSnapshot, error) {
	seq := s.dashboardSeq.Add(1)
	params := types.DefaultListParams()

	var (
		wg             sync.WaitGroup
		contacts       []types.ContactRequest
		equipment      []types.EquipmentRequest
		contactTotal   int64
		equipmentTotal int64
		contactErr     error
		equipmentErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		contacts, contactTotal, contactErr = s.store.ListContactRequests(ctx, params)
	}()
	go func() {
		defer wg.Done()
		equipment, equipmentTotal, equipmentErr = s.store.ListEquipmentRequests(ctx, params)
	}()
	wg.Wait()

	if contactErr != nil {
		return nil, apperrors.NewDatabaseError(contactErr)
	}
	if equipmentErr != nil {
		return nil, apperrors.NewDatabaseError(equipmentErr)
	}

	if s.dashboardSeq.Load() != seq {
		return nil, ErrStaleSnapshot
	}

	return &DashboardSnapshot{
		ContactTotal:    contactTotal,
		EquipmentTotal:  equipmentTotal,
		RecentContact:   contacts,
		RecentEquipment: equipment,
	}, nil
}

// UpdateContactStatus moves one contact lead to a new status.
func (s *ReviewService) UpdateContactStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
	if err := s.acquire(types.LeadKindContact, id, status); err != nil {
		return nil, err
	}
	defer s.release(types.LeadKindContact, id)

	updated, err := s.store.UpdateContactStatus(ctx, id, status)
	if err != nil {
		return nil, mapUpdateError(err, "Contact request", id)
	}

	logger.GetLogger().Infow("Contact request status updated", "id", id, "status", status)
	return updated, nil
}

// UpdateEquipmentStatus moves one equipment lead to a new status.
func (s *ReviewService) UpdateEquipmentStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error) {
	if err := s.acquire(types.LeadKindEquipment, id, status); err != nil {
		return nil, err
	}
	defer s.release(types.LeadKindEquipment, id)

	updated, err := s.store.UpdateEquipmentStatus(ctx, id, status)
	if err != nil {
		return nil, mapUpdateError(err, "Equipment request", id)
	}

	logger.GetLogger().Infow("Equipment request status updated", "id", id, "status", status)
	return updated, nil
}

// acquire validates the status and claims the per-row update slot. A second
// update for the same row while one is running is rejected, not queued.
func (s *ReviewService) acquire(kind types.LeadKind, id int64, status types.RequestStatus) error {
	if !status.Valid() {
		return apperrors.InvalidStatus(string(status))
	}

	key := fmt.Sprintf("%s:%d", kind, id)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[key]; busy {
		return apperrors.NewConflictError("Update already in progress", fmt.Sprintf("Request %d has a pending status update", id))
	}
	s.inFlight[key] = struct{}{}
	return nil
}

func (s *ReviewService) release(kind types.LeadKind, id int64) {
	key := fmt.Sprintf("%s:%d", kind, id)
	s.mu.Lock()
	delete(s.inFlight, key)
	s.mu.Unlock()
}

func mapUpdateError(err error, entity string, id int64) error {
	if strings.Contains(err.Error(), "not found") {
		return apperrors.NotFound(entity, id)
	}
	return apperrors.NewDatabaseError(err)
}
