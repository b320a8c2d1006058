package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/dpup/trailfire/server/api/v1"
	"github.com/dpup/trailfire/server/internal/lib/report"
)

func TestReportService_GetReport(t *testing.T) {
	tracker := testTracker(t)
	svc := NewReportService(tracker, testResolver())
	ctx := context.Background()

	body, err := svc.GetReport(ctx, wrapperspb.String("CT"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", body.GetContentType())
	assert.Equal(t, report.ApologyText, string(body.GetData()))

	require.True(t, tracker.Refresh(ctx, "CT", testFires()))

	for _, name := range []string{"CT", "ct", "Colorado Trail"} {
		body, err = svc.GetReport(ctx, wrapperspb.String(name))
		require.NoError(t, err, name)
		assert.Equal(t, expectedReport, string(body.GetData()), name)
	}

	_, err = svc.GetReport(ctx, wrapperspb.String("AT"))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = svc.GetReport(ctx, wrapperspb.String(" "))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestReportService_GetMap(t *testing.T) {
	tracker := testTracker(t)
	svc := NewReportService(tracker, testResolver())
	ctx := context.Background()

	_, err := svc.GetMap(ctx, wrapperspb.String("CT"))
	assert.Equal(t, codes.Unavailable, status.Code(err))

	require.True(t, tracker.Refresh(ctx, "CT", testFires()))

	body, err := svc.GetMap(ctx, wrapperspb.String("CT"))
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.google-earth.kml+xml", body.GetContentType())
	assert.Contains(t, string(body.GetData()), "<kml")
	assert.Contains(t, string(body.GetData()), "Spring Creek")
	assert.NotContains(t, string(body.GetData()), "Distant")
}

func TestReportService_ListTrails(t *testing.T) {
	tracker := testTracker(t)
	svc := NewReportService(tracker, testResolver())
	ctx := context.Background()

	list, err := svc.ListTrails(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 1)
	fields := list.GetValues()[0].GetStructValue().GetFields()
	assert.Equal(t, "CT", fields["code"].GetStringValue())
	assert.Equal(t, "Colorado Trail", fields["name"].GetStringValue())
	assert.True(t, fields["available"].GetBoolValue())
	assert.False(t, fields["has_report"].GetBoolValue())
	assert.True(t, fields["stale"].GetBoolValue())
	assert.True(t, fields["overdue"].GetBoolValue())
	assert.NotContains(t, fields, "last_updated")

	require.True(t, tracker.Refresh(ctx, "CT", testFires()))

	list, err = svc.ListTrails(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	fields = list.GetValues()[0].GetStructValue().GetFields()
	assert.True(t, fields["has_report"].GetBoolValue())
	assert.False(t, fields["stale"].GetBoolValue())
	assert.False(t, fields["overdue"].GetBoolValue())
	assert.NotEmpty(t, fields["last_updated"].GetStringValue())
	assert.Equal(t, float64(1), fields["crossing"].GetNumberValue())
	assert.Equal(t, float64(1), fields["proximate"].GetNumberValue())
}

func TestReportService_Gateway(t *testing.T) {
	tracker := testTracker(t)
	require.True(t, tracker.Refresh(context.Background(), "CT", testFires()))

	server := httptest.NewServer(api.NewGateway(NewReportService(tracker, testResolver())))
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/trails/CT/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, expectedReport, string(data))
}
