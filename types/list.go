package types

// ItemsPerPage is the fixed page size of the admin review tables.
const ItemsPerPage = 10

// SortOrder is the direction of a single-column sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Valid reports whether o is a recognized sort order.
func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// SortColumn names a sortable column of a lead collection.
type SortColumn string

const (
	SortByCreatedAt     SortColumn = "created_at"
	SortByName          SortColumn = "name"
	SortByStatus        SortColumn = "status"
	SortByEquipmentName SortColumn = "equipment_name"
)

// SortableColumns returns the sortable columns of the given collection.
// Equipment leads additionally sort by equipment_name.
func SortableColumns(kind LeadKind) []SortColumn {
	cols := []SortColumn{SortByCreatedAt, SortByName, SortByStatus}
	if kind == LeadKindEquipment {
		cols = append(cols, SortByEquipmentName)
	}
	return cols
}

// SortSpec is the active sort of a review table.
type SortSpec struct {
	Column SortColumn `json:"column"`
	Order  SortOrder  `json:"order"`
}

// DefaultSort is the initial sort of both review tables: newest first.
func DefaultSort() SortSpec {
	return SortSpec{Column: SortByCreatedAt, Order: SortDesc}
}

// Next computes the sort that results from clicking a column header:
// clicking the active column toggles the direction, selecting a new column
// resets to ascending. Any sort change also resets pagination to page 1;
// callers combine this with ListParams.ResetPage.
func (s SortSpec) Next(clicked SortColumn) SortSpec {
	if s.Column == clicked && s.Order == SortAsc {
		return SortSpec{Column: clicked, Order: SortDesc}
	}
	return SortSpec{Column: clicked, Order: SortAsc}
}

// ValidFor reports whether s sorts by a column the collection has.
func (s SortSpec) ValidFor(kind LeadKind) bool {
	if !s.Order.Valid() {
		return false
	}
	for _, col := range SortableColumns(kind) {
		if s.Column == col {
			return true
		}
	}
	return false
}

// ListParams are the filter, search, sort and pagination parameters of a
// review-table query. StatusFilter empty means all statuses.
type ListParams struct {
	StatusFilter RequestStatus `json:"status,omitempty"`
	Search       string        `json:"search,omitempty"`
	Sort         SortSpec      `json:"sort"`
	Page         int           `json:"page"`
}

// DefaultListParams returns page 1 of an unfiltered listing with the
// default sort.
func DefaultListParams() ListParams {
	return ListParams{Sort: DefaultSort(), Page: 1}
}

// Offset returns the zero-based range start for the current page.
func (p ListParams) Offset() int {
	page := p.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * ItemsPerPage
}

// ResetPage returns a copy of the params back on page 1. Changing filter,
// search, or sort always resets pagination.
func (p ListParams) ResetPage() ListParams {
	p.Page = 1
	return p
}

// TotalPages computes the page count for a collection size.
func TotalPages(totalCount int64) int {
	if totalCount <= 0 {
		return 0
	}
	pages := int(totalCount / ItemsPerPage)
	if totalCount%ItemsPerPage != 0 {
		pages++
	}
	return pages
}

// ClampPage constrains a requested page to [1, totalPages]. Requests
// outside the range are a no-op on the current position: 0 clamps to 1,
// totalPages+1 clamps to totalPages. An empty collection keeps page 1.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
