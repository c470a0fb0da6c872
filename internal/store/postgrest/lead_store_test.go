package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/business-partner/leads-backend/types"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) (*LeadStore, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"})
	return NewLeadStore(client, ""), srv
}

func TestSubmitLead_CallsRestrictedProcedure(t *testing.T) {
	var gotPath string
	var gotArgs map[string]interface{}
	var gotHeaders http.Header

	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotArgs))
		w.WriteHeader(http.StatusNoContent)
	})

	link := "exc-200"
	name := "Экскаватор EXC-200"
	err := s.SubmitLead(context.Background(), types.LeadSubmission{
		Name:          "Иван Иванов",
		ContactInfo:   "Телефон: 79001234567",
		EquipmentName: &name,
		EquipmentLink: &link,
		RequestType:   types.RequestTypePriceQuote,
	})
	require.NoError(t, err)

	assert.Equal(t, "/rest/v1/rpc/insert_request_untrusted", gotPath)
	assert.Equal(t, "test-key", gotHeaders.Get("apikey"))
	assert.Equal(t, "Bearer test-key", gotHeaders.Get("Authorization"))
	assert.Equal(t, "Иван Иванов", gotArgs["p_name"])
	assert.Equal(t, "Телефон: 79001234567", gotArgs["p_contact_info"])
	assert.Equal(t, "exc-200", gotArgs["p_equipment_link"])
	assert.Equal(t, types.RequestTypePriceQuote, gotArgs["p_request_type"])
	// Optional fields are serialized as explicit nulls for the procedure.
	assert.Contains(t, gotArgs, "p_message")
	assert.Nil(t, gotArgs["p_message"])
}

func TestSubmitLead_SurfacesRemoteMessage(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"new row violates row-level security policy"}`))
	})

	err := s.SubmitLead(context.Background(), types.LeadSubmission{Name: "Иван", ContactInfo: "Email: a@b.ru"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "new row violates row-level security policy")
}

func TestListContactRequests_QueryShape(t *testing.T) {
	var gotQuery map[string][]string
	var gotRange, gotPrefer string

	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/contact_requests", r.URL.Path)
		gotQuery = r.URL.Query()
		gotRange = r.Header.Get("Range")
		gotPrefer = r.Header.Get("Prefer")
		w.Header().Set("Content-Range", "10-11/42")
		_, _ = w.Write([]byte(`[
			{"id":11,"created_at":"2024-05-01T10:20:30+00:00","name":"Иванов Иван","contact_info":"Телефон: 79001234567","status":"closed"},
			{"id":12,"created_at":"2024-05-02T11:00:00+00:00","name":"Петров Пётр","contact_info":"Email: p@mail.ru","status":"closed"}
		]`))
	})

	items, total, err := s.ListContactRequests(context.Background(), types.ListParams{
		StatusFilter: types.StatusClosed,
		Search:       "Иванов",
		Sort:         types.SortSpec{Column: types.SortByName, Order: types.SortAsc},
		Page:         2,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"eq.closed"}, gotQuery["status"])
	assert.Equal(t, []string{"(name.ilike.*Иванов*,contact_info.ilike.*Иванов*)"}, gotQuery["or"])
	assert.Equal(t, []string{"name.asc"}, gotQuery["order"])
	assert.Equal(t, "10-19", gotRange)
	assert.Equal(t, "count=exact", gotPrefer)

	assert.Equal(t, int64(42), total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(11), items[0].ID)
	assert.Equal(t, types.StatusClosed, items[0].Status)
}

func TestListEquipmentRequests_DefaultSortNewestFirst(t *testing.T) {
	var gotQuery map[string][]string

	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Range", "0-0/1")
		_, _ = w.Write([]byte(`[{"id":1,"created_at":"2024-05-01T10:20:30+00:00","name":"Иван","contact_info":"Телефон: 79001234567","equipment_link":"exc-200","request_type":"Запрос цены/консультации","status":"new"}]`))
	})

	items, total, err := s.ListEquipmentRequests(context.Background(), types.DefaultListParams())
	require.NoError(t, err)

	assert.Equal(t, []string{"created_at.desc"}, gotQuery["order"])
	assert.Empty(t, gotQuery["status"])
	assert.Empty(t, gotQuery["or"])

	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].EquipmentLink)
	assert.Equal(t, "exc-200", *items[0].EquipmentLink)
}

func TestList_SearchTermCannotAlterFilter(t *testing.T) {
	var gotOr string

	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotOr = r.URL.Query().Get("or")
		w.Header().Set("Content-Range", "*/0")
		_, _ = w.Write([]byte(`[]`))
	})

	_, _, err := s.ListContactRequests(context.Background(), types.ListParams{
		Search: "x),status.eq.new,(y",
		Sort:   types.DefaultSort(),
		Page:   1,
	})
	require.NoError(t, err)
	assert.NotContains(t, gotOr, "status.eq.new,")
}

func TestList_RangePastEndReturnsEmptyPage(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Range", "*/13")
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
	})

	items, total, err := s.ListContactRequests(context.Background(), types.ListParams{Sort: types.DefaultSort(), Page: 99})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(13), total)
}

func TestUpdateContactStatus_PatchByPrimaryKey(t *testing.T) {
	var gotMethod, gotID, gotPrefer string
	var gotPayload map[string]string

	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotID = r.URL.Query().Get("id")
		gotPrefer = r.Header.Get("Prefer")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		_, _ = w.Write([]byte(`[{"id":5,"created_at":"2024-05-01T10:20:30+00:00","name":"Иванов","contact_info":"Email: a@b.ru","status":"in_progress"}]`))
	})

	updated, err := s.UpdateContactStatus(context.Background(), 5, types.StatusInProgress)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "eq.5", gotID)
	assert.Equal(t, "return=representation", gotPrefer)
	assert.Equal(t, map[string]string{"status": "in_progress"}, gotPayload)
	assert.Equal(t, types.StatusInProgress, updated.Status)
}

func TestUpdateEquipmentStatus_MissingRow(t *testing.T) {
	s, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := s.UpdateEquipmentStatus(context.Background(), 404, types.StatusClosed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseContentRange(t *testing.T) {
	cases := []struct {
		header string
		total  int64
		ok     bool
	}{
		{"0-9/42", 42, true},
		{"*/0", 0, true},
		{"*/13", 13, true},
		{"", 0, false},
		{"0-9", 0, false},
		{"0-9/x", 0, false},
	}

	for _, tc := range cases {
		total, err := parseContentRange(tc.header)
		if tc.ok {
			require.NoError(t, err, "header %q", tc.header)
			assert.Equal(t, tc.total, total, "header %q", tc.header)
		} else {
			assert.Error(t, err, "header %q", tc.header)
		}
	}
}
