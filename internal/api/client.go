package api

import (
	"context"

	"google.golang.org/grpc"

	"github.com/miradorstack/spectrum-engine/internal/models"
)

// Client calls a remote SpectrumEngine service over an established connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}

// Analyze submits a snapshot and returns the resulting report.
func (c *Client) Analyze(ctx context.Context, req *AnalyzeRequest, opts ...grpc.CallOption) (*models.Report, error) {
	out := new(models.Report)
	if err := c.invoke(ctx, "Analyze", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TrackTarget starts tracking an access point.
func (c *Client) TrackTarget(ctx context.Context, req *TargetRequest, opts ...grpc.CallOption) (*models.TargetSnapshot, error) {
	out := new(models.TargetSnapshot)
	if err := c.invoke(ctx, "TrackTarget", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// UntrackTarget stops tracking an access point.
func (c *Client) UntrackTarget(ctx context.Context, req *TargetRequest, opts ...grpc.CallOption) (*TargetAck, error) {
	out := new(TargetAck)
	if err := c.invoke(ctx, "UntrackTarget", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// SetTargetActive pauses or resumes a target.
func (c *Client) SetTargetActive(ctx context.Context, req *TargetRequest, opts ...grpc.CallOption) (*TargetAck, error) {
	out := new(TargetAck)
	if err := c.invoke(ctx, "SetTargetActive", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTarget fetches one target including its sample history.
func (c *Client) GetTarget(ctx context.Context, req *TargetRequest, opts ...grpc.CallOption) (*models.TargetSnapshot, error) {
	out := new(models.TargetSnapshot)
	if err := c.invoke(ctx, "GetTarget", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTargets lists tracked targets.
func (c *Client) ListTargets(ctx context.Context, opts ...grpc.CallOption) (*ListTargetsResponse, error) {
	out := new(ListTargetsResponse)
	if err := c.invoke(ctx, "ListTargets", &ListTargetsRequest{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ChannelStatus fetches the congestion summary for one channel.
func (c *Client) ChannelStatus(ctx context.Context, req *ChannelRequest, opts ...grpc.CallOption) (*ChannelStatusResponse, error) {
	out := new(ChannelStatusResponse)
	if err := c.invoke(ctx, "ChannelStatus", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// HealthCheck reports whether the service is serving.
func (c *Client) HealthCheck(ctx context.Context, opts ...grpc.CallOption) (*HealthResponse, error) {
	out := new(HealthResponse)
	if err := c.invoke(ctx, "HealthCheck", &HealthRequest{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
