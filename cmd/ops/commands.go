package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"habitrpg/config"
	"habitrpg/internal/application/usecase"
	"habitrpg/internal/clock"
	"habitrpg/internal/infrastructure/repository"
	"habitrpg/internal/logger"
	grpc_server "habitrpg/internal/transport/grpc"

	"github.com/charmbracelet/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Context struct {
	ConfigDir string
	Debug     bool
}

func (c *Context) load() (config.Config, *log.Logger, error) {
	cfg, err := config.LoadConfig(c.ConfigDir)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	logg, err := logger.New(logger.Config{Debug: c.Debug || cfg.LogDebug, Dir: cfg.LogDir, Prefix: "habitrpg-ops"})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logg, nil
}

func (c *Context) openDB() (*gorm.DB, config.Config, *log.Logger, error) {
	cfg, logg, err := c.load()
	if err != nil {
		return nil, cfg, nil, err
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, cfg, nil, fmt.Errorf("connect to DB: %w", err)
	}
	return db, cfg, logg, nil
}

type MigrateCmd struct{}

func (m *MigrateCmd) Run(c *Context) error {
	db, _, logg, err := c.openDB()
	if err != nil {
		return err
	}
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logg.Info("schema up to date")
	return nil
}

type SeedCmd struct{}

func (s *SeedCmd) Run(c *Context) error {
	db, _, logg, err := c.openDB()
	if err != nil {
		return err
	}
	n, err := usecase.SeedCatalog(context.Background(), repository.NewStore(db))
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logg.Info("catalog seeded", "entries", n)
	return nil
}

type ResetCmd struct {
	Date     string `help:"Day to reset for (YYYY-MM-DD). Defaults to today in RESET_TIMEZONE."`
	GRPCAddr string `name:"grpc-addr" help:"Ask a running app to reset instead of writing to the database directly."`
}

func (r *ResetCmd) Run(c *Context) error {
	if r.Date != "" {
		if _, err := clock.ParseDay(r.Date); err != nil {
			return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if r.GRPCAddr != "" {
		cfg, _, err := c.load()
		if err != nil {
			return err
		}
		return r.remote(ctx, cfg.AdminKey)
	}

	db, cfg, logg, err := c.openDB()
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk := clock.System{Location: loc}

	day := clk.Today()
	if r.Date != "" {
		day, _ = clock.ParseDay(r.Date)
	}

	habits := usecase.NewHabitUseCase(repository.NewStore(db), clk, nil, logg)
	report, err := habits.RunDailyReset(ctx, day)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d users refilled, %d habits re-armed\n",
		report.Day.Format(time.DateOnly), report.UsersRefilled, report.HabitsRearmed)
	return nil
}

func (r *ResetCmd) remote(ctx context.Context, adminKey string) error {
	if adminKey == "" {
		return errors.New("ADMIN_KEY must be set to reset over gRPC")
	}
	ctx = metadata.AppendToOutgoingContext(ctx, grpc_server.AdminKeyHeader, adminKey)

	conn, err := grpc.NewClient(r.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	out, err := grpc_server.NewOpsClient(conn).RunDailyReset(ctx, wrapperspb.String(r.Date))
	if err != nil {
		return err
	}
	fields := out.AsMap()
	fmt.Printf("%v: %v users refilled, %v habits re-armed\n",
		fields["day"], fields["users_refilled"], fields["habits_rearmed"])
	return nil
}

type HealthCmd struct {
	GRPCAddr string        `name:"grpc-addr" default:"localhost:9090" help:"Address of the app's gRPC endpoint."`
	Timeout  time.Duration `default:"5s" help:"How long to wait for SERVING."`
}

func (h *HealthCmd) Run(c *Context) error {
	conn, err := grpc.NewClient(h.GRPCAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), h.Timeout)
	defer cancel()

	client := healthpb.NewHealthClient(conn)
	backoff := 200 * time.Millisecond
	for {
		res, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: grpc_server.OpsServiceName})
		if err == nil && res.GetStatus() == healthpb.HealthCheckResponse_SERVING {
			fmt.Println("SERVING")
			return nil
		}

		select {
		case <-ctx.Done():
			if err != nil {
				return fmt.Errorf("wait for gRPC health: %w", err)
			}
			return fmt.Errorf("wait for gRPC health: status %s", res.GetStatus())
		case <-time.After(backoff):
		}
		backoff = min(2*backoff, time.Second)
	}
}
