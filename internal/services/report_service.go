package services

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	api "github.com/dpup/trailfire/server/api/v1"
	"github.com/dpup/trailfire/server/internal/lib/mapexport"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeKML  = "application/vnd.google-earth.kml+xml"
)

// ReportService implements the ReportService gRPC interface over the tracker
// cache. It never triggers analysis itself.
type ReportService struct {
	api.UnimplementedReportServiceServer

	tracker  *FireTracker
	resolver *trail.Resolver
}

// NewReportService creates a new report service
func NewReportService(tracker *FireTracker, resolver *trail.Resolver) *ReportService {
	return &ReportService{
		tracker:  tracker,
		resolver: resolver,
	}
}

// GetReport returns the cached plain text report for a trail code or name
func (s *ReportService) GetReport(ctx context.Context, req *wrapperspb.StringValue) (*httpbody.HttpBody, error) {
	ctx = logging.EnsureLogger(ctx)
	code, err := s.resolve(req.GetValue())
	if err != nil {
		return nil, err
	}

	logging.Infow(ctx, "GetReport request", "trail", code)
	return &httpbody.HttpBody{
		ContentType: contentTypeText,
		Data:        []byte(s.tracker.GetReport(code)),
	}, nil
}

// GetMap renders the last successful analysis of a trail as KML
func (s *ReportService) GetMap(ctx context.Context, req *wrapperspb.StringValue) (*httpbody.HttpBody, error) {
	ctx = logging.EnsureLogger(ctx)
	code, err := s.resolve(req.GetValue())
	if err != nil {
		return nil, err
	}

	analysis, ok := s.tracker.Analysis(code)
	if !ok {
		return nil, status.Errorf(codes.Unavailable, "no analysis available yet for %s", code)
	}

	var buf bytes.Buffer
	if err := mapexport.Write(&buf, analysis); err != nil {
		logging.Errorw(ctx, "Failed to render map", "trail", code, "error", err)
		return nil, status.Errorf(codes.Internal, "failed to render map for %s", code)
	}

	return &httpbody.HttpBody{
		ContentType: contentTypeKML,
		Data:        buf.Bytes(),
	}, nil
}

// ListTrails lists every tracked trail with report freshness
func (s *ReportService) ListTrails(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	ctx = logging.EnsureLogger(ctx)
	statuses := s.tracker.Status()
	values := make([]any, 0, len(statuses))
	for _, st := range statuses {
		entry := map[string]any{
			"code":       st.Code,
			"name":       st.Name,
			"available":  st.Available,
			"has_report": st.HasReport,
			"stale":      st.Stale,
			"overdue":    st.Overdue,
			"crossing":   st.Crossing,
			"proximate":  st.Proximate,
		}
		if st.HasReport {
			entry["last_updated"] = st.LastUpdated.UTC().Format(time.RFC3339)
		}
		values = append(values, entry)
	}

	list, err := structpb.NewList(values)
	if err != nil {
		logging.Errorw(ctx, "Failed to build trail list", "error", err)
		return nil, status.Error(codes.Internal, "failed to list trails")
	}
	return list, nil
}

// resolve accepts an exact tracked code in any case, then falls back to the
// synonym resolver for names such as "colorado trail"
func (s *ReportService) resolve(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", status.Error(codes.InvalidArgument, "trail is required")
	}
	if s.tracker.Tracks(strings.ToUpper(value)) {
		return strings.ToUpper(value), nil
	}
	if s.resolver != nil {
		if code, ok := s.resolver.Resolve(value); ok {
			if s.tracker.Tracks(code) {
				return code, nil
			}
		}
	}
	return "", status.Errorf(codes.NotFound, "unknown trail %q", value)
}
