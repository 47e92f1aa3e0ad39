package services

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/miradorstack/spectrum-engine/internal/api"
	"github.com/miradorstack/spectrum-engine/internal/engine"
	"github.com/miradorstack/spectrum-engine/internal/metrics"
	"github.com/miradorstack/spectrum-engine/internal/models"
	"github.com/miradorstack/spectrum-engine/internal/utils"
)

// SpectrumService implements the gRPC SpectrumEngine service.
type SpectrumService struct {
	logger    *slog.Logger
	engine    *engine.Engine
	latencies *utils.LatencyTracker
}

var _ api.SpectrumEngineServer = (*SpectrumService)(nil)

// NewSpectrumService constructs the service facade over eng.
func NewSpectrumService(logger *slog.Logger, eng *engine.Engine) *SpectrumService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpectrumService{
		logger:    logger,
		engine:    eng,
		latencies: utils.NewLatencyTracker(1024),
	}
}

// Analyze runs one analysis pass over the submitted snapshot.
func (s *SpectrumService) Analyze(ctx context.Context, req *api.AnalyzeRequest) (*models.Report, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	snapshot, location, err := api.FromAnalyzeRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Debug("Analyze called", slog.Int("networks", len(snapshot.Networks)), slog.Bool("has_fix", location != nil))

	start := time.Now()
	report := s.engine.Analyze(snapshot, location)
	duration := time.Since(start)

	s.latencies.Observe(duration)
	metrics.ObserveAnalysis(metrics.SourceGRPC, duration, report)
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		p95 := s.latencies.Percentile(95)
		s.logger.Info("analysis latency", slog.Duration("p95", p95), slog.Int("samples", count))
	}
	return &report, nil
}

// TrackTarget starts tracking an access point.
func (s *SpectrumService) TrackTarget(ctx context.Context, req *api.TargetRequest) (*models.TargetSnapshot, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	bssid, err := api.FromTargetRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	snapshot := s.engine.TrackTarget(bssid, req.SSID)
	if req.Active != nil && !*req.Active {
		s.engine.SetTargetActive(bssid, false)
		snapshot = s.engine.Target(bssid)
	}
	metrics.SetHuntTargets(s.engine.ActiveTargets())
	return &snapshot, nil
}

// UntrackTarget stops tracking an access point and discards its history.
func (s *SpectrumService) UntrackTarget(ctx context.Context, req *api.TargetRequest) (*api.TargetAck, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	bssid, err := api.FromTargetRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	removed := s.engine.UntrackTarget(bssid)
	metrics.SetHuntTargets(s.engine.ActiveTargets())
	return &api.TargetAck{BSSID: bssid, Accepted: removed}, nil
}

// SetTargetActive pauses or resumes sampling of a tracked target.
func (s *SpectrumService) SetTargetActive(ctx context.Context, req *api.TargetRequest) (*api.TargetAck, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	bssid, err := api.FromTargetRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Active == nil {
		return nil, status.Error(codes.InvalidArgument, "active is required")
	}
	if !s.engine.SetTargetActive(bssid, *req.Active) {
		return nil, status.Errorf(codes.NotFound, "target %s is not tracked", bssid)
	}
	metrics.SetHuntTargets(s.engine.ActiveTargets())
	return &api.TargetAck{BSSID: bssid, Accepted: true}, nil
}

// GetTarget returns one target with its sample history. Untracked BSSIDs return a
// neutral snapshot with Tracked unset.
func (s *SpectrumService) GetTarget(ctx context.Context, req *api.TargetRequest) (*models.TargetSnapshot, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	bssid, err := api.FromTargetRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	snapshot := s.engine.Target(bssid)
	return &snapshot, nil
}

// ListTargets lists every tracked target.
func (s *SpectrumService) ListTargets(ctx context.Context, req *api.ListTargetsRequest) (*api.ListTargetsResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	return &api.ListTargetsResponse{Targets: s.engine.Targets()}, nil
}

// ChannelStatus returns the congestion summary for a 2.4GHz channel.
func (s *SpectrumService) ChannelStatus(ctx context.Context, req *api.ChannelRequest) (*api.ChannelStatusResponse, error) {
	if s.engine == nil {
		return nil, status.Error(codes.FailedPrecondition, "engine not configured")
	}
	channel, err := api.FromChannelRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp := &api.ChannelStatusResponse{Status: s.engine.ChannelStatus(channel)}
	if req.IncludeHistory {
		resp.History = s.engine.CongestionHistory(channel)
	}
	return resp, nil
}

// HealthCheck returns the current health state.
func (s *SpectrumService) HealthCheck(ctx context.Context, req *api.HealthRequest) (*api.HealthResponse, error) {
	if s.engine == nil {
		return &api.HealthResponse{Status: "NOT_SERVING"}, nil
	}
	return &api.HealthResponse{Status: "SERVING"}, nil
}

// LatencyP95 returns the current p95 analysis latency.
func (s *SpectrumService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}
