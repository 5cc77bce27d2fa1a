package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"storefront/internal/clients"
	"storefront/internal/delivery"
	grpcdelivery "storefront/internal/delivery/grpc"
	"storefront/internal/jobs"
	"storefront/internal/usecase"
	"storefront/pkg/db"
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the gRPC health service and the stale order reaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the schema before serving")
	return cmd
}

func runServe(parent context.Context, migrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	if migrate {
		if err := db.Migrate(ctx, a.db, log); err != nil {
			return err
		}
	}

	// --- Dependency Injection ---
	identity, err := clients.NewJWTIdentityVerifier(a.cfg.AuthJWTSecret, log)
	if err != nil {
		return err
	}
	policy := usecase.NewAccessPolicy(a.profiles, log)
	checkout := a.checkout()
	deps := delivery.RouterDeps{
		Identity: identity,
		Policy:   policy,
		Catalog:  usecase.NewCatalogUseCase(a.products, a.cfg.RelatedProductsLimit, log),
		Cart:     usecase.NewCartUseCase(a.carts, a.products, a.orders, a.cfg.TaxRate, log),
		Checkout: checkout,
		Profile:  usecase.NewProfileUseCase(a.profiles, a.orders, log),
		Admin:    usecase.NewAdminUseCase(policy, a.products, a.orders, a.profiles, a.events, log),
	}
	log.Info("Use cases initialized.")

	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	httpServer := &http.Server{
		Addr:              a.cfg.HTTPPort,
		Handler:           delivery.NewRouter(deps, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	health := grpcdelivery.NewHealthServer(a.db, log)
	health.Register(grpcServer)

	reaper := jobs.NewReaper(checkout, log)
	if err := reaper.Schedule(a.cfg.ReaperSchedule); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("Starting HTTP server on %s", a.cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		lis, err := net.Listen("tcp", a.cfg.GrpcPort)
		if err != nil {
			return err
		}
		log.Infof("Starting gRPC server on %s", a.cfg.GrpcPort)
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		health.Watch(gctx, 15*time.Second)
		return nil
	})

	reaper.Start()

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		health.Shutdown()
		reaper.Stop(shutdownCtx)
		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("HTTP server shutdown: %v", err)
			return err
		}
		log.Info("Servers stopped.")
		return nil
	})

	return g.Wait()
}
