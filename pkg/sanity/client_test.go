package sanity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rewriteTransport redirects every request to the test server while keeping
// the path and query intact.
type rewriteTransport struct {
	target *url.URL
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.target.Scheme
	req.URL.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(req)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	c := NewClient(Config{ProjectID: "proj", Dataset: "production"})
	c.httpClient = &http.Client{Transport: &rewriteTransport{target: target}}
	return c
}

func TestEndpoint_APIvsCDN(t *testing.T) {
	api := NewClient(Config{ProjectID: "proj", Dataset: "production"})
	assert.Equal(t, "https://proj.api.sanity.io/v2024-03-10/data/query/production", api.endpoint())

	cdn := NewClient(Config{ProjectID: "proj", Dataset: "production", UseCDN: true, APIVersion: "2023-01-01"})
	assert.Equal(t, "https://proj.apicdn.sanity.io/v2023-01-01/data/query/production", cdn.endpoint())
}

func TestConfigured(t *testing.T) {
	assert.True(t, NewClient(Config{ProjectID: "proj", Dataset: "production"}).Configured())
	assert.False(t, NewClient(Config{}).Configured())
	assert.False(t, NewClient(Config{ProjectID: "proj"}).Configured())
}

func TestQuery_DecodesResultAndEncodesParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2024-03-10/data/query/production", r.URL.Path)
		assert.Equal(t, EquipmentBySlugQuery, r.URL.Query().Get("query"))
		assert.Equal(t, `"exc-200"`, r.URL.Query().Get("$slug"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"_id":"eq-1","title":"Экскаватор EXC-200","slug":"exc-200"},"ms":3.5}`))
	})

	var item Equipment
	err := client.Query(context.Background(), EquipmentBySlugQuery, map[string]interface{}{"slug": "exc-200"}, &item)
	require.NoError(t, err)
	assert.Equal(t, "eq-1", item.ID)
	assert.Equal(t, "exc-200", item.Slug)
}

func TestQuery_NullResultLeavesDestinationNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null,"ms":1.0}`))
	})

	var item *Equipment
	err := client.Query(context.Background(), EquipmentBySlugQuery, map[string]interface{}{"slug": "ghost"}, &item)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestQuery_ErrorResponseSurfacesDescription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"description":"expected '}' following object body","type":"queryParseError"}}`))
	})

	err := client.Query(context.Background(), "*[broken", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "expected '}'")
}
