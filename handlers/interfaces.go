package handlers

import (
	"context"

	"github.com/business-partner/leads-backend/pkg/sanity"
	"github.com/business-partner/leads-backend/services"
	"github.com/business-partner/leads-backend/types"
)

// SubmissionGateway defines the methods used by SubmissionHandler, allowing
// the handler to be tested with mocks.
type SubmissionGateway interface {
	Submit(ctx context.Context, kind types.LeadKind, input types.SubmissionInput) error
}

var _ SubmissionGateway = (*services.SubmissionService)(nil)

// ReviewServiceInterface defines the methods used by AdminHandler.
type ReviewServiceInterface interface {
	ListContacts(ctx context.Context, p types.ListParams) (*services.ContactPage, error)
	ListEquipment(ctx context.Context, p types.ListParams) (*services.EquipmentPage, error)
	FetchDashboard(ctx context.Context) (*services.DashboardSnapshot, error)
	UpdateContactStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error)
	UpdateEquipmentStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error)
}

var _ ReviewServiceInterface = (*services.ReviewService)(nil)

// ContentServiceInterface defines the methods used by ContentHandler.
type ContentServiceInterface interface {
	GetEquipmentList(ctx context.Context) ([]sanity.Equipment, error)
	GetEquipmentBySlug(ctx context.Context, slug string) (*sanity.Equipment, error)
	GetNewsList(ctx context.Context) ([]sanity.NewsPost, error)
	GetNewsBySlug(ctx context.Context, slug string) (*sanity.NewsPost, error)
}

var _ ContentServiceInterface = (*services.ContentService)(nil)

// RevalidatorInterface defines the methods used by RevalidateHandler.
type RevalidatorInterface interface {
	SecretMatches(candidate string) bool
	Trigger()
}

var _ RevalidatorInterface = (*services.RevalidationService)(nil)
