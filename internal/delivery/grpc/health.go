package grpc

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const ServiceName = "storefront"

// HealthServer reports SERVING while the database answers pings.
type HealthServer struct {
	health *health.Server
	db     pinger
	log    *logrus.Logger
}

type pinger interface {
	PingContext(ctx context.Context) error
}

var _ pinger = (*sql.DB)(nil)

func NewHealthServer(db pinger, logger *logrus.Logger) *HealthServer {
	return &HealthServer{
		health: health.NewServer(),
		db:     db,
		log:    logger,
	}
}

// Register attaches the health service and reflection to srv.
func (h *HealthServer) Register(srv *grpc.Server) {
	healthpb.RegisterHealthServer(srv, h.health)
	reflection.Register(srv)
}

// Check pings the database once and updates the serving status of both the
// overall server and the named service.
func (h *HealthServer) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := h.db.PingContext(ctx); err != nil {
		h.log.Warnf("gRPC: Database ping failed: %v", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch re-checks on every tick until ctx is done.
func (h *HealthServer) Watch(ctx context.Context, every time.Duration) {
	h.Check(ctx)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING ahead of GracefulStop.
func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
}
