package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortSpecNext_ToggleAndReset(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, SortSpec{Column: SortByCreatedAt, Order: SortDesc}, s)

	// Clicking the active column toggles direction.
	s = s.Next(SortByCreatedAt)
	assert.Equal(t, SortSpec{Column: SortByCreatedAt, Order: SortAsc}, s)
	s = s.Next(SortByCreatedAt)
	assert.Equal(t, SortSpec{Column: SortByCreatedAt, Order: SortDesc}, s)

	// Selecting a new column resets to ascending.
	s = s.Next(SortByName)
	assert.Equal(t, SortSpec{Column: SortByName, Order: SortAsc}, s)
}

func TestSortSpecValidFor(t *testing.T) {
	equipSort := SortSpec{Column: SortByEquipmentName, Order: SortAsc}
	assert.True(t, equipSort.ValidFor(LeadKindEquipment))
	assert.False(t, equipSort.ValidFor(LeadKindContact))

	assert.False(t, SortSpec{Column: SortByName, Order: "sideways"}.ValidFor(LeadKindContact))
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"within range", 2, 5, 2},
		{"past the end", 99, 5, 5},
		{"below one", 0, 5, 1},
		{"empty collection", 3, 0, 1},
		{"exact last page", 5, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.totalPages))
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(10))
	assert.Equal(t, 2, TotalPages(11))
	assert.Equal(t, 5, TotalPages(42))
}

func TestListParamsOffset(t *testing.T) {
	assert.Equal(t, 0, ListParams{Page: 1}.Offset())
	assert.Equal(t, 10, ListParams{Page: 2}.Offset())
	assert.Equal(t, 0, ListParams{Page: 0}.Offset())
}

func TestResetPage(t *testing.T) {
	p := ListParams{StatusFilter: StatusClosed, Search: "Иванов", Page: 4}
	reset := p.ResetPage()
	assert.Equal(t, 1, reset.Page)
	assert.Equal(t, StatusClosed, reset.StatusFilter)
	assert.Equal(t, "Иванов", reset.Search)
}
