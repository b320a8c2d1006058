// Package v1 defines the trailfire.v1.ReportService gRPC API and its REST
// gateway. Messages are protobuf well-known types so no generated code is
// required.
package v1

import (
	"context"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ReportService_GetReport_FullMethodName  = "/trailfire.v1.ReportService/GetReport"
	ReportService_GetMap_FullMethodName     = "/trailfire.v1.ReportService/GetMap"
	ReportService_ListTrails_FullMethodName = "/trailfire.v1.ReportService/ListTrails"
)

// ReportServiceServer is the server API for ReportService.
//
// GetReport and GetMap take a trail code or any text naming a trail. Reports
// are returned as text/plain and maps as KML.
type ReportServiceServer interface {
	GetReport(context.Context, *wrapperspb.StringValue) (*httpbody.HttpBody, error)
	GetMap(context.Context, *wrapperspb.StringValue) (*httpbody.HttpBody, error)
	ListTrails(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// UnimplementedReportServiceServer can be embedded to have forward compatible
// implementations
type UnimplementedReportServiceServer struct{}

func (UnimplementedReportServiceServer) GetReport(context.Context, *wrapperspb.StringValue) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetReport not implemented")
}

func (UnimplementedReportServiceServer) GetMap(context.Context, *wrapperspb.StringValue) (*httpbody.HttpBody, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetMap not implemented")
}

func (UnimplementedReportServiceServer) ListTrails(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTrails not implemented")
}

// RegisterReportService registers srv with any gRPC service registrar,
// including prefab's
func RegisterReportService(s grpc.ServiceRegistrar, srv ReportServiceServer) {
	s.RegisterService(&ReportService_ServiceDesc, srv)
}

func _ReportService_GetReport_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).GetReport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportService_GetReport_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).GetReport(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReportService_GetMap_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).GetMap(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportService_GetMap_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).GetMap(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReportService_ListTrails_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReportServiceServer).ListTrails(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ReportService_ListTrails_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReportServiceServer).ListTrails(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ReportService_ServiceDesc is the grpc.ServiceDesc for ReportService
var ReportService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "trailfire.v1.ReportService",
	HandlerType: (*ReportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetReport",
			Handler:    _ReportService_GetReport_Handler,
		},
		{
			MethodName: "GetMap",
			Handler:    _ReportService_GetMap_Handler,
		},
		{
			MethodName: "ListTrails",
			Handler:    _ReportService_ListTrails_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trailfire/v1/report.proto",
}

// ReportServiceClient is the client API for ReportService
type ReportServiceClient interface {
	GetReport(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	GetMap(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*httpbody.HttpBody, error)
	ListTrails(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type reportServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewReportServiceClient wraps a client connection
func NewReportServiceClient(cc grpc.ClientConnInterface) ReportServiceClient {
	return &reportServiceClient{cc}
}

func (c *reportServiceClient) GetReport(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, ReportService_GetReport_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) GetMap(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, ReportService_GetMap_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *reportServiceClient) ListTrails(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ReportService_ListTrails_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
