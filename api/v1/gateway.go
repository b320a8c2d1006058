package v1

import (
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GatewayPrefix is the path prefix served by NewGateway
const GatewayPrefix = "/api/v1/trails"

// NewGateway exposes srv over REST in-process:
//
//	GET /api/v1/trails               list trails and report freshness
//	GET /api/v1/trails/{code}/report plain text report
//	GET /api/v1/trails/{code}/map    KML map of the last analysis
func NewGateway(srv ReportServiceServer) *runtime.ServeMux {
	mux := runtime.NewServeMux()
	marshaler := &runtime.JSONPb{}

	mustHandle := func(pattern string, h runtime.HandlerFunc) {
		if err := mux.HandlePath(http.MethodGet, pattern, h); err != nil {
			panic(err)
		}
	}

	mustHandle(GatewayPrefix, func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		list, err := srv.ListTrails(r.Context(), &emptypb.Empty{})
		if err != nil {
			runtime.HTTPError(r.Context(), mux, marshaler, w, r, err)
			return
		}
		data, err := marshaler.Marshal(list)
		if err != nil {
			runtime.HTTPError(r.Context(), mux, marshaler, w, r, err)
			return
		}
		w.Header().Set("Content-Type", marshaler.ContentType(list))
		_, _ = w.Write(data)
	})

	bodyRoute := func(call func(r *http.Request, code string) (*httpbody.HttpBody, error)) runtime.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
			body, err := call(r, params["code"])
			if err != nil {
				runtime.HTTPError(r.Context(), mux, marshaler, w, r, err)
				return
			}
			w.Header().Set("Content-Type", body.GetContentType())
			_, _ = w.Write(body.GetData())
		}
	}

	mustHandle(GatewayPrefix+"/{code}/report", bodyRoute(func(r *http.Request, code string) (*httpbody.HttpBody, error) {
		return srv.GetReport(r.Context(), wrapperspb.String(code))
	}))
	mustHandle(GatewayPrefix+"/{code}/map", bodyRoute(func(r *http.Request, code string) (*httpbody.HttpBody, error) {
		return srv.GetMap(r.Context(), wrapperspb.String(code))
	}))

	return mux
}
