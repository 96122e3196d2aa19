package main

import (
	"context"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/elys-network/bondstake/internal/app"
	"github.com/elys-network/bondstake/internal/config"
	"github.com/elys-network/bondstake/internal/logger"
	"github.com/elys-network/bondstake/internal/metrics"
	"github.com/elys-network/bondstake/internal/scheduler"
	"github.com/elys-network/bondstake/internal/state"
	"github.com/elys-network/bondstake/internal/store"
	"github.com/elys-network/bondstake/internal/types"
	"github.com/elys-network/bondstake/internal/web"
)

const (
	stateDBName     = "bondstake"
	shutdownTimeout = 10 * time.Second
)

// main is the entry point of the bond and staking host.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(config.LogLevel, config.LogFormat)
	log.Info().Msg("Bondstake host starting...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(stateDBName, config.StateBackend, config.StateDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open state database")
	}
	defer db.Close()

	recorder, err := openRecorder(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("recorder", config.Recorder).Msg("Failed to open recorder")
	}
	defer recorder.Close()

	// --- 2. Host Initialization ---
	m := metrics.New()
	host, err := app.NewApp(app.Config{
		DB:       db,
		Recorder: recorder,
		Metrics:  m,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create host")
	}

	if err := ensureInstantiated(ctx, host); err != nil {
		log.Fatal().Err(err).Msg("Failed to instantiate contracts")
	}
	height, _ := host.Height()
	log.Info().Int64("height", height).Msg("Contracts ready")

	// --- 3. Servers ---
	webServer := web.NewWebServer(host, m.Handler(), config.HTTPListen)
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed")
			stop()
		}
	}()

	var grpcServer *grpc.Server
	if config.GRPCListen != "" {
		grpcServer, err = startHealthServer(config.GRPCListen)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to start gRPC health server")
		}
	}

	// --- 4. Rebase Keeper ---
	var sched *scheduler.Scheduler
	if config.RebaseSchedule != "" {
		sched = scheduler.NewScheduler(ctx, host, config.KeeperAddress)
		if err := sched.RegisterRebase(config.RebaseSchedule); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule rebase keeper")
		}
		sched.Start()
	}

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	if sched != nil {
		sched.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Web server shutdown failed")
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	log.Info().Msg("Bondstake host stopped")
}

func openRecorder(ctx context.Context) (state.Recorder, error) {
	switch config.Recorder {
	case "sqlite":
		return state.OpenSQLite(ctx, config.SQLitePath)
	case "postgres":
		return state.OpenPostgres(ctx, state.DBConfig{
			Host:     config.PostgresHost,
			Port:     config.PostgresPort,
			User:     config.PostgresUser,
			Password: config.PostgresPassword,
			DBName:   config.PostgresDBName,
			SSLMode:  config.PostgresSSLMode,
		})
	default:
		return state.Noop{}, nil
	}
}

// ensureInstantiated applies the genesis on a fresh state directory. An existing state is kept as is.
func ensureInstantiated(ctx context.Context, host *app.App) error {
	instantiated, err := host.Instantiated()
	if err != nil {
		return err
	}
	if instantiated {
		return nil
	}

	var gen types.Genesis
	if config.GenesisFile != "" {
		gen, err = config.LoadGenesis(config.GenesisFile)
		if err != nil {
			return err
		}
		log.Info().Str("file", config.GenesisFile).Msg("Instantiating from genesis file")
	} else {
		gen = config.DefaultGenesis(config.GenesisAdmin, config.GenesisTreasury)
		log.Warn().Str("admin", config.GenesisAdmin).Msg("No genesis file set, instantiating default parameters")
	}
	return host.Instantiate(ctx, gen)
}

// startHealthServer serves the standard gRPC health service so orchestrators can probe the host.
func startHealthServer(addr string) (*grpc.Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go func() {
		log.Info().Str("addr", addr).Msg("gRPC health server listening")
		if err := grpcServer.Serve(listener); err != nil {
			log.Error().Err(err).Msg("gRPC health server stopped")
		}
	}()
	return grpcServer, nil
}
