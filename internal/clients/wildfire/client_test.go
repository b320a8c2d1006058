package wildfire

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHTTPDoer is a mock implementation of HTTPDoer
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func loadTestFixture(t *testing.T, filename string) string {
	data, err := os.ReadFile("testdata/" + filename)
	require.NoError(t, err, "Failed to load test fixture %s", filename)
	return string(data)
}

func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchFires_Success(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet && req.URL.Query().Get("f") == "json"
	})).Return(createMockResponse(200, loadTestFixture(t, "perimeters.json")), nil)

	client := NewClientWithHTTPDoer("", mockHTTP)
	records, err := client.FetchFires(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	spring := records[0]
	assert.Equal(t, "Spring Creek", spring.Name, "poly_IncidentName takes precedence")
	require.NotNil(t, spring.Acres)
	assert.Equal(t, 1204.6, *spring.Acres)
	require.NotNil(t, spring.Containment)
	assert.Equal(t, 35.0, *spring.Containment)
	require.Len(t, spring.Rings, 1)
	assert.Equal(t, [2]float64{-105.9, 38.1}, spring.Rings[0][0], "Rings stay in (lon, lat) order")

	pine := records[1]
	assert.Equal(t, "Pine Gulch", pine.Name, "Falls back to irwin_IncidentName")
	require.NotNil(t, pine.Acres)
	assert.Equal(t, 87000.0, *pine.Acres, "Falls back to attr_IncidentSize")
	assert.Nil(t, pine.Containment)
	require.Len(t, pine.Rings, 2)
	assert.Equal(t, [2]float64{-108.5, 39.3}, pine.Rings[0][0], "Z values are dropped")

	noGeometry := records[2]
	assert.Equal(t, "No Geometry", noGeometry.Name)
	assert.Empty(t, noGeometry.Rings)

	mockHTTP.AssertExpectations(t)
}

func TestFetchFires_HTTPError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(503, "service unavailable"), nil)

	_, err := NewClientWithHTTPDoer("https://example.test/query", mockHTTP).FetchFires(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error 503")
}

func TestFetchFires_QueryError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"error":{"code":400,"message":"Invalid query parameters"}}`), nil)

	_, err := NewClientWithHTTPDoer("https://example.test/query", mockHTTP).FetchFires(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid query parameters")
}

func TestFetchFires_TransportError(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(nil, errors.New("connection refused"))

	_, err := NewClientWithHTTPDoer("https://example.test/query", mockHTTP).FetchFires(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFetchFires_BadJSON(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"features": [`), nil)

	_, err := NewClientWithHTTPDoer("https://example.test/query", mockHTTP).FetchFires(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestDecode(t *testing.T) {
	f, err := os.Open("testdata/perimeters.json")
	require.NoError(t, err)
	defer f.Close()

	records, err := Decode(f)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = Decode(strings.NewReader(`{"error":{"code":400,"message":"Invalid query"}}`))
	assert.EqualError(t, err, "API error 400: Invalid query")
}
