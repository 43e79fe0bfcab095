package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	httpin "exportflow/internal/adapters/in/http"
	"exportflow/internal/adapters/out/authz"
	"exportflow/internal/adapters/out/metrics"
	"exportflow/internal/adapters/out/minioevidence"
	"exportflow/internal/adapters/out/postgres"
	"exportflow/internal/adapters/out/postgres/evidencerepo"
	"exportflow/internal/adapters/out/rabbitmq"
	"exportflow/internal/adapters/out/redisseq"
	"exportflow/internal/core/application/usecases/commands"
	"exportflow/internal/core/application/usecases/queries"
	"exportflow/internal/core/domain/catalog"
	"exportflow/internal/core/domain/services"
	"exportflow/internal/core/ports"
	"exportflow/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *zap.Logger
	clock      ports.Clock
	catalog    *catalog.Catalog
	calculator services.ScheduleCalculator
	metrics    *metrics.Metrics

	uowFactory *postgres.GormUnitOfWorkFactory
	redis      *redis.Client
	publisher  *rabbitmq.Publisher
	evidence   ports.EvidenceInventory
	policy     ports.AuthorizationPolicy
}

// NewCompositionRoot connects the infrastructure named by cfg. Publishing
// audit events is disabled when AMQP_URL is empty.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		clock:      ports.ClockFunc(time.Now),
		catalog:    catalog.Default(),
		calculator: services.NewScheduleCalculator(),
		metrics:    metrics.New(reg),
	}

	policy, err := authz.NewRolePolicy(cfg.AdminRoles, cfg.DelayApproverRoles)
	if err != nil {
		return nil, fmt.Errorf("authorization policy: %w", err)
	}
	c.policy = policy

	c.redis = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := c.redis.Ping(ctx).Err(); err != nil {
		_ = c.redis.Close()
		return nil, fmt.Errorf("redis: %w", err)
	}

	var publisher ports.EventPublisher
	if cfg.AMQPURL != "" {
		c.publisher, err = rabbitmq.NewPublisher(cfg.AMQPURL, logger)
		if err != nil {
			_ = c.redis.Close()
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		publisher = metrics.InstrumentPublisher(c.publisher, c.metrics)
	} else {
		logger.Warn("AMQP_URL is empty, audit events are not published")
	}
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)

	switch cfg.EvidenceBackend {
	case EvidenceMinio:
		inventory, err := minioevidence.New(minioevidence.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("minio: %w", err)
		}
		c.evidence = inventory
	default:
		c.evidence = evidencerepo.NewGormEvidenceInventory(gormDB)
	}

	return c, nil
}

// Close releases the connections opened by NewCompositionRoot.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}
	if c.redis != nil {
		errs = append(errs, c.redis.Close())
	}
	return errors.Join(errs...)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, redisseq.NewAllocator(c.redis), c.clock)
}

func (c *CompositionRoot) CreateActivateOrderCommandHandler() commands.ActivateOrderCommandHandler {
	return commands.NewActivateOrderCommandHandler(c.uowFactoryFunc(), c.catalog, c.calculator)
}

func (c *CompositionRoot) CreateTransitionMilestoneCommandHandler() commands.TransitionMilestoneCommandHandler {
	return commands.NewTransitionMilestoneCommandHandler(c.milestoneUoWFactory(), c.evidence, c.catalog, c.clock, c.logger)
}

func (c *CompositionRoot) CreateSubmitDelayRequestCommandHandler() commands.SubmitDelayRequestCommandHandler {
	return commands.NewSubmitDelayRequestCommandHandler(c.uowFactoryFunc(), c.clock)
}

func (c *CompositionRoot) CreateApproveDelayRequestCommandHandler() commands.ApproveDelayRequestCommandHandler {
	return commands.NewApproveDelayRequestCommandHandler(
		c.uowFactoryFunc(), c.catalog, services.NewDelayRecalculator(c.calculator), c.clock)
}

func (c *CompositionRoot) CreateRejectDelayRequestCommandHandler() commands.RejectDelayRequestCommandHandler {
	return commands.NewRejectDelayRequestCommandHandler(c.uowFactoryFunc(), c.clock)
}

func (c *CompositionRoot) CreateFlagOverdueMilestonesCommandHandler() commands.FlagOverdueMilestonesCommandHandler {
	return commands.NewFlagOverdueMilestonesCommandHandler(c.milestoneUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateGetOrderMilestonesQueryHandler() queries.GetOrderMilestonesQueryHandler {
	return queries.NewGetOrderMilestonesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMilestoneLogQueryHandler() queries.GetMilestoneLogQueryHandler {
	return queries.NewGetMilestoneLogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDelayRequestsQueryHandler() queries.GetDelayRequestsQueryHandler {
	return queries.NewGetDelayRequestsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreatePreviewScheduleQueryHandler() queries.PreviewScheduleQueryHandler {
	return NewPreviewScheduleQueryHandler(c.catalog)
}

// NewPreviewScheduleQueryHandler needs no infrastructure and is shared with
// the schedule command.
func NewPreviewScheduleQueryHandler(c *catalog.Catalog) queries.PreviewScheduleQueryHandler {
	return queries.NewPreviewScheduleQueryHandler(c, services.NewScheduleCalculator())
}

// CreateRouter builds the HTTP server with every use case.
func (c *CompositionRoot) CreateRouter(level log.Lvl) (*echo.Echo, error) {
	createOrder := c.CreateCreateOrderCommandHandler()
	activateOrder := c.CreateActivateOrderCommandHandler()
	transition := c.CreateTransitionMilestoneCommandHandler()
	submitDelay := c.CreateSubmitDelayRequestCommandHandler()
	approveDelay := c.CreateApproveDelayRequestCommandHandler()
	rejectDelay := c.CreateRejectDelayRequestCommandHandler()

	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:         &createOrder,
		ActivateOrder:       &activateOrder,
		TransitionMilestone: &transition,
		SubmitDelayRequest:  &submitDelay,
		ApproveDelayRequest: &approveDelay,
		RejectDelayRequest:  &rejectDelay,
		GetOrderMilestones:  c.CreateGetOrderMilestonesQueryHandler(),
		GetMilestoneLog:     c.CreateGetMilestoneLogQueryHandler(),
		GetDelayRequests:    c.CreateGetDelayRequestsQueryHandler(),
		PreviewSchedule:     c.CreatePreviewScheduleQueryHandler(),
	}, c.clock, c.logger)

	authenticator, err := httpin.NewAuthenticator(c.cfg.JWTSecret, c.policy, c.logger)
	if err != nil {
		return nil, err
	}

	return httpin.NewRouter(httpin.RouterOptions{
		Server:        server,
		Authenticator: authenticator,
		Metrics:       c.metrics,
		LogLevel:      level,
	})
}

// CreateJobManager returns the scheduled jobs of the server.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	flagger := c.CreateFlagOverdueMilestonesCommandHandler()
	return jobs.NewJobManager(
		jobs.NewOverdueScanJob(&flagger, c.clock, c.cfg.OverdueScanSchedule, c.metrics, c.logger),
	)
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) milestoneUoWFactory() commands.MilestoneUoWFactory {
	return FuncMilestoneUoWFactory(func() commands.MilestoneUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncMilestoneUoWFactory func() commands.MilestoneUoW

func (f FuncMilestoneUoWFactory) Create() commands.MilestoneUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
