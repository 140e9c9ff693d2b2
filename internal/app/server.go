package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"

	queryv1 "github.com/tabletdb/tabletd/api/queryv1"
	"github.com/tabletdb/tabletd/internal/api/grpc/interceptors"

	// Registers the cbor codec the query service negotiates by content
	// subtype. Without it the server only speaks proto.
	_ "github.com/tabletdb/tabletd/internal/platform/grpc"
	"github.com/tabletdb/tabletd/internal/platform/timeouts"
	sqlitestore "github.com/tabletdb/tabletd/internal/storage/sqlite"
	"github.com/tabletdb/tabletd/internal/tabletserver"
	"github.com/tabletdb/tabletd/internal/telemetry"
)

// Options configures a tablet server instance.
type Options struct {
	// Addr is the listen address. When empty, Port is used.
	Addr string
	Port int

	// DBPath locates the sqlite database file. Empty means data/tablet.db.
	DBPath string

	Keyspace   string
	Shard      string
	TabletType string

	TxPoolSize     int
	TxTimeout      time.Duration
	QPSLimit       float64
	HealthInterval time.Duration

	// SessionKey signs session ids. Empty means a random per-process key.
	SessionKey string
}

// Server hosts the tablet query service.
type Server struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
	store      *sqlitestore.Store
	query      *tabletserver.Service
}

// New creates a configured tablet server listening on the provided address.
func New(opts Options) (*Server, error) {
	addr := opts.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", opts.Port)
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openStore(opts.DBPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	query, err := tabletserver.New(tabletserver.Config{
		Target: queryv1.Target{
			Keyspace:   opts.Keyspace,
			Shard:      opts.Shard,
			TabletType: parseTabletType(opts.TabletType),
		},
		DB:             store.DB(),
		SessionKey:     []byte(opts.SessionKey),
		TxPoolSize:     opts.TxPoolSize,
		TxTimeout:      opts.TxTimeout,
		QPSLimit:       opts.QPSLimit,
		HealthInterval: opts.HealthInterval,
	})
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.Telemetry(telemetry.NewEmitter(store)),
		),
	)
	healthServer := health.NewServer()
	queryv1.RegisterQueryServer(grpcServer, query)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(queryv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &Server{
		listener:   listener,
		grpcServer: grpcServer,
		health:     healthServer,
		store:      store,
		query:      query,
	}, nil
}

// Addr returns the listener address for the tablet server.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a tablet server until the context ends.
func Run(ctx context.Context, opts Options) error {
	srv, err := New(opts)
	if err != nil {
		return err
	}
	return srv.Serve(ctx)
}

// Serve starts the tablet server and blocks until it stops or the context
// ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	background, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	s.query.Start(background)

	log.Printf("tablet server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.query.SetServing(false)
		// Bound the graceful stop so a stuck stream cannot hold shutdown.
		forceStop := time.AfterFunc(timeouts.Shutdown, s.grpcServer.Stop)
		s.grpcServer.GracefulStop()
		forceStop.Stop()
		s.query.Shutdown()
		err := <-serveErr
		return handleErr(err)
	case err := <-serveErr:
		return handleErr(err)
	}
}

func openStore(path string) (*sqlitestore.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "tablet.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := sqlitestore.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

func parseTabletType(name string) queryv1.TabletType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "primary", "master":
		return queryv1.TabletTypePrimary
	case "replica":
		return queryv1.TabletTypeReplica
	case "rdonly", "batch":
		return queryv1.TabletTypeRdonly
	default:
		return queryv1.TabletTypeUnknown
	}
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}
