package v1

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type fakeReportServer struct {
	UnimplementedReportServiceServer
}

func (fakeReportServer) GetReport(_ context.Context, req *wrapperspb.StringValue) (*httpbody.HttpBody, error) {
	if req.GetValue() != "CT" {
		return nil, status.Errorf(codes.NotFound, "unknown trail %q", req.GetValue())
	}
	return &httpbody.HttpBody{ContentType: "text/plain; charset=utf-8", Data: []byte("Total fires within 50 miles of the CT: 0\n")}, nil
}

func (fakeReportServer) ListTrails(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return structpb.NewList([]any{map[string]any{"code": "CT"}})
}

func startBufconn(t *testing.T, srv ReportServiceServer) ReportServiceClient {
	t.Helper()
	lis := bufconn.Listen(1024 * 1024)

	s := grpc.NewServer()
	RegisterReportService(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewReportServiceClient(conn)
}

func TestReportService_GRPC(t *testing.T) {
	client := startBufconn(t, fakeReportServer{})
	ctx := context.Background()

	body, err := client.GetReport(ctx, wrapperspb.String("CT"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", body.GetContentType())
	assert.Equal(t, "Total fires within 50 miles of the CT: 0\n", string(body.GetData()))

	_, err = client.GetReport(ctx, wrapperspb.String("AT"))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.GetMap(ctx, wrapperspb.String("CT"))
	assert.Equal(t, codes.Unimplemented, status.Code(err))

	list, err := client.ListTrails(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 1)
	assert.Equal(t, "CT", list.GetValues()[0].GetStructValue().GetFields()["code"].GetStringValue())
}

func TestGateway(t *testing.T) {
	server := httptest.NewServer(NewGateway(fakeReportServer{}))
	defer server.Close()

	get := func(path string) (*http.Response, string) {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(data)
	}

	resp, body := get("/api/v1/trails/CT/report")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Total fires within 50 miles of the CT: 0\n", body)

	resp, _ = get("/api/v1/trails/AT/report")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get("/api/v1/trails/CT/map")
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)

	resp, body = get("/api/v1/trails")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"code":"CT"}]`, body)
}
