package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/business-partner/leads-backend/internal/store"
	"github.com/business-partner/leads-backend/types"
)

const (
	contactTable   = "contact_requests"
	equipmentTable = "equipment_requests"

	// defaultSubmitFunction is the restricted procedure used when none is
	// configured. Both lead variants go through it; the procedure routes
	// rows to the right collection based on the equipment fields.
	defaultSubmitFunction = "insert_request_untrusted"
)

// LeadStore implements store.LeadStore over the REST data plane.
type LeadStore struct {
	client   *Client
	submitFn string
}

var _ store.LeadStore = (*LeadStore)(nil)

// NewLeadStore creates a lead store using the given client. submitFn names
// the restricted procedure; empty selects the default.
func NewLeadStore(client *Client, submitFn string) *LeadStore {
	if submitFn == "" {
		submitFn = defaultSubmitFunction
	}
	return &LeadStore{client: client, submitFn: submitFn}
}

// SubmitLead invokes the restricted procedure with the argument bundle.
func (s *LeadStore) SubmitLead(ctx context.Context, sub types.LeadSubmission) error {
	return s.client.Rpc(ctx, s.submitFn, sub)
}

// escapeSearchTerm strips the characters that carry meaning inside a
// PostgREST or=() filter so user input cannot alter the filter structure.
func escapeSearchTerm(term string) string {
	return strings.NewReplacer(",", " ", "(", " ", ")", " ", "*", " ").Replace(term)
}

// listQuery builds the query parameters shared by both collections:
// equality filter on status, case-insensitive substring search over name
// and contact_info, single-column sort.
func listQuery(p types.ListParams) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	if p.StatusFilter != "" {
		q.Set("status", "eq."+string(p.StatusFilter))
	}
	if term := strings.TrimSpace(p.Search); term != "" {
		term = strings.TrimSpace(escapeSearchTerm(term))
		q.Set("or", fmt.Sprintf("(name.ilike.*%s*,contact_info.ilike.*%s*)", term, term))
	}
	sort := p.Sort
	if sort.Column == "" {
		sort = types.DefaultSort()
	}
	q.Set("order", fmt.Sprintf("%s.%s", sort.Column, sort.Order))
	return q
}

// ListContactRequests returns one page of contact leads and the exact
// total count.
func (s *LeadStore) ListContactRequests(ctx context.Context, p types.ListParams) ([]types.ContactRequest, int64, error) {
	from := p.Offset()
	body, total, err := s.client.Select(ctx, contactTable, listQuery(p), from, from+types.ItemsPerPage-1)
	if err != nil {
		return nil, 0, err
	}

	var items []types.ContactRequest
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s rows: %w", contactTable, err)
	}
	return items, total, nil
}

// ListEquipmentRequests returns one page of equipment leads and the exact
// total count.
func (s *LeadStore) ListEquipmentRequests(ctx context.Context, p types.ListParams) ([]types.EquipmentRequest, int64, error) {
	from := p.Offset()
	body, total, err := s.client.Select(ctx, equipmentTable, listQuery(p), from, from+types.ItemsPerPage-1)
	if err != nil {
		return nil, 0, err
	}

	var items []types.EquipmentRequest
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s rows: %w", equipmentTable, err)
	}
	return items, total, nil
}

// updateStatus patches the status column of a single row by primary key
// and returns the updated representation.
func (s *LeadStore) updateStatus(ctx context.Context, table string, id int64, status types.RequestStatus) ([]byte, error) {
	q := url.Values{}
	q.Set("id", fmt.Sprintf("eq.%d", id))
	return s.client.Update(ctx, table, q, map[string]string{"status": string(status)})
}

// UpdateContactStatus writes the new status of a contact lead.
func (s *LeadStore) UpdateContactStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.ContactRequest, error) {
	body, err := s.updateStatus(ctx, contactTable, id, status)
	if err != nil {
		return nil, err
	}

	var rows []types.ContactRequest
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode updated row: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("contact request %d not found", id)
	}
	return &rows[0], nil
}

// UpdateEquipmentStatus writes the new status of an equipment lead.
func (s *LeadStore) UpdateEquipmentStatus(ctx context.Context, id int64, status types.RequestStatus) (*types.EquipmentRequest, error) {
	body, err := s.updateStatus(ctx, equipmentTable, id, status)
	if err != nil {
		return nil, err
	}

	var rows []types.EquipmentRequest
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode updated row: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("equipment request %d not found", id)
	}
	return &rows[0], nil
}
