package grpc

// proto.go defines the gRPC server interface for redflags/v1/redflags.proto.
// It stands in for buf-generated code; messages travel with the json codec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "redflags.v1.RedFlagsService"

// RedFlagsServiceServer is the server API for RedFlagsService.
type RedFlagsServiceServer interface {
	AnalyzeCompany(context.Context, *AnalyzeCompanyRequest) (*AnalyzeCompanyResponse, error)
	GetAnalysis(context.Context, *GetAnalysisRequest) (*GetAnalysisResponse, error)
	MatchPatterns(context.Context, *MatchPatternsRequest) (*MatchPatternsResponse, error)
	RecordCase(context.Context, *RecordCaseRequest) (*RecordCaseResponse, error)
	mustEmbedUnimplementedRedFlagsServiceServer()
}

// UnimplementedRedFlagsServiceServer provides forward-compatible default implementations.
type UnimplementedRedFlagsServiceServer struct{}

func (UnimplementedRedFlagsServiceServer) AnalyzeCompany(context.Context, *AnalyzeCompanyRequest) (*AnalyzeCompanyResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeCompany not implemented")
}
func (UnimplementedRedFlagsServiceServer) GetAnalysis(context.Context, *GetAnalysisRequest) (*GetAnalysisResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAnalysis not implemented")
}
func (UnimplementedRedFlagsServiceServer) MatchPatterns(context.Context, *MatchPatternsRequest) (*MatchPatternsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MatchPatterns not implemented")
}
func (UnimplementedRedFlagsServiceServer) RecordCase(context.Context, *RecordCaseRequest) (*RecordCaseResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordCase not implemented")
}
func (UnimplementedRedFlagsServiceServer) mustEmbedUnimplementedRedFlagsServiceServer() {}

// RegisterRedFlagsServiceServer registers the RedFlagsServiceServer with the gRPC server.
func RegisterRedFlagsServiceServer(s grpclib.ServiceRegistrar, srv RedFlagsServiceServer) {
	s.RegisterService(&_RedFlagsService_serviceDesc, srv)
}

var _RedFlagsService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RedFlagsServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AnalyzeCompany", Handler: _RedFlagsService_AnalyzeCompany_Handler},
		{MethodName: "GetAnalysis", Handler: _RedFlagsService_GetAnalysis_Handler},
		{MethodName: "MatchPatterns", Handler: _RedFlagsService_MatchPatterns_Handler},
		{MethodName: "RecordCase", Handler: _RedFlagsService_RecordCase_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RedFlagsService_AnalyzeCompany_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(AnalyzeCompanyRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedFlagsServiceServer).AnalyzeCompany(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/AnalyzeCompany"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RedFlagsServiceServer).AnalyzeCompany(ctx, req.(*AnalyzeCompanyRequest))
	})
}

func _RedFlagsService_GetAnalysis_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(GetAnalysisRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedFlagsServiceServer).GetAnalysis(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetAnalysis"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RedFlagsServiceServer).GetAnalysis(ctx, req.(*GetAnalysisRequest))
	})
}

func _RedFlagsService_MatchPatterns_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(MatchPatternsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedFlagsServiceServer).MatchPatterns(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/MatchPatterns"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RedFlagsServiceServer).MatchPatterns(ctx, req.(*MatchPatternsRequest))
	})
}

func _RedFlagsService_RecordCase_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(RecordCaseRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedFlagsServiceServer).RecordCase(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/RecordCase"}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(RedFlagsServiceServer).RecordCase(ctx, req.(*RecordCaseRequest))
	})
}
