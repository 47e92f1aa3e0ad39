package api

import (
	"context"

	"google.golang.org/grpc"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "spectrum.v1.SpectrumEngine"

// AnalyzeRequest carries one scan snapshot and the location fix at scan time.
type AnalyzeRequest struct {
	Snapshot models.Snapshot    `json:"snapshot"`
	Location *models.Coordinate `json:"location,omitempty"`
}

// TargetRequest addresses a hunt target.
type TargetRequest struct {
	BSSID  string `json:"bssid"`
	SSID   string `json:"ssid,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// TargetAck confirms a hunt mutation.
type TargetAck struct {
	BSSID    string `json:"bssid"`
	Accepted bool   `json:"accepted"`
}

// ListTargetsRequest is empty.
type ListTargetsRequest struct{}

// ListTargetsResponse lists tracked targets without sample history.
type ListTargetsResponse struct {
	Targets []models.TargetSnapshot `json:"targets"`
}

// ChannelRequest addresses one channel.
type ChannelRequest struct {
	Channel        int  `json:"channel"`
	IncludeHistory bool `json:"include_history,omitempty"`
}

// ChannelStatusResponse carries a channel summary and optionally its history.
type ChannelStatusResponse struct {
	Status  models.ChannelStatus             `json:"status"`
	History []models.ChannelCongestionSample `json:"history,omitempty"`
}

// HealthRequest is empty.
type HealthRequest struct{}

// HealthResponse reports serving state.
type HealthResponse struct {
	Status string `json:"status"`
}

// SpectrumEngineServer is the server API for the SpectrumEngine service.
type SpectrumEngineServer interface {
	Analyze(context.Context, *AnalyzeRequest) (*models.Report, error)
	TrackTarget(context.Context, *TargetRequest) (*models.TargetSnapshot, error)
	UntrackTarget(context.Context, *TargetRequest) (*TargetAck, error)
	SetTargetActive(context.Context, *TargetRequest) (*TargetAck, error)
	GetTarget(context.Context, *TargetRequest) (*models.TargetSnapshot, error)
	ListTargets(context.Context, *ListTargetsRequest) (*ListTargetsResponse, error)
	ChannelStatus(context.Context, *ChannelRequest) (*ChannelStatusResponse, error)
	HealthCheck(context.Context, *HealthRequest) (*HealthResponse, error)
}

// RegisterSpectrumEngineServer attaches srv to s.
func RegisterSpectrumEngineServer(s grpc.ServiceRegistrar, srv SpectrumEngineServer) {
	s.RegisterService(&SpectrumEngineServiceDesc, srv)
}

// unary adapts a typed method into a grpc method handler.
func unary[Req any, Resp any](method string, call func(SpectrumEngineServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SpectrumEngineServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SpectrumEngineServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SpectrumEngineServiceDesc describes the SpectrumEngine service for grpc.Server.
var SpectrumEngineServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SpectrumEngineServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Analyze", SpectrumEngineServer.Analyze),
		unary("TrackTarget", SpectrumEngineServer.TrackTarget),
		unary("UntrackTarget", SpectrumEngineServer.UntrackTarget),
		unary("SetTargetActive", SpectrumEngineServer.SetTargetActive),
		unary("GetTarget", SpectrumEngineServer.GetTarget),
		unary("ListTargets", SpectrumEngineServer.ListTargets),
		unary("ChannelStatus", SpectrumEngineServer.ChannelStatus),
		unary("HealthCheck", SpectrumEngineServer.HealthCheck),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "spectrum/v1/spectrum.json",
}
