// Package store defines the data-access interfaces of the lead pipeline.
// Implementations live in subpackages; handlers and services depend only
// on these interfaces.
package store

import (
	"context"

	"github.com/business-partner/leads-backend/types"
)

// SubmissionStore is the single external write path for untrusted input.
// The only operation is the invocation of a named, parameter-bound server
// procedure — never a direct table insert.
type SubmissionStore interface {
	// SubmitLead invokes the restricted procedure with the normalized
	// argument bundle. Every successful call creates a new record; there
	// is no deduplication and no retry.
	SubmitLead(ctx context.Context, sub types.LeadSubmission) error
}

// ReviewStore is the authenticated read/update path used by the admin
// dashboard over the two independent lead collections.
type ReviewStore interface {
	// ListContactRequests returns one page of contact leads plus the exact
	// total count for the given filter/search/sort parameters.
	ListContactRequests(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error)

	// ListEquipmentRequests returns one page of equipment leads plus the
	// exact total count.
	ListEquipmentRequests(ctx context.Context, p types.ListParams) ([]types.EquipmentRequest, int64, error)

	// UpdateContactStatus writes the new status by primary key and returns
	// the updated record. Status is the only mutable column.
	UpdateContactStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error)

	// UpdateEquipmentStatus is the equipment-collection counterpart of
	// UpdateContactStatus.
	UpdateEquipmentStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error)
}

// LeadStore combines both data paths. The PostgREST implementation backs
// them with the same restricted client.
type LeadStore interface {
	SubmissionStore
	ReviewStore
}
