package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/media"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/tracking"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into command and query handlers.
// All shared infrastructure (database, broadcaster, Kafka writer) is created
// once here and handed to every handler that needs it.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	broadcaster *tracking.Broadcaster
	notifier    ports.Notifier
	geocoder    ports.Geocoder
	mediaStore  ports.MediaStore
	events      *kafka.OrderEventPublisher
	recorder    metrics.Recorder
	trust       services.TrustEvaluator
}

// NewCompositionRoot builds the shared infrastructure from the configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	mediaStore, err := media.NewFileStore(config.MediaDir)
	if err != nil {
		return nil, err
	}

	recorder := metrics.Recorder{}

	return &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		broadcaster: tracking.NewBroadcaster(
			tracking.DefaultSubscriberBuffer,
			config.TrackingKeepalive,
			recorder,
			logger,
		),
		notifier:   notify.NewSlogNotifier(logger),
		geocoder:   geo.NewHTTPGeocoder(config.GeocoderURL),
		mediaStore: mediaStore,
		events: kafka.NewOrderEventPublisher(
			[]string{config.KafkaHost},
			config.KafkaOrderChangedTopic,
			logger,
		),
		recorder: recorder,
		trust:    services.NewTrustEvaluator(config.TrustThreshold),
	}, nil
}

// Broadcaster returns the shared tracking broadcaster.
func (c *CompositionRoot) Broadcaster() *tracking.Broadcaster {
	return c.broadcaster
}

// Close releases the shared infrastructure.
func (c *CompositionRoot) Close() error {
	c.broadcaster.Close()
	return c.events.Close()
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OTPUoWFactory = FuncOTPUoWFactory(func() commands.OTPUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(
		f, c.trust, c.geocoder, c.notifier, c.events, c.recorder, c.config.OTPTTL)
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyTransitionCommandHandler(
		f, c.notifier, c.broadcaster, c.events, c.recorder)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignCourierCommandHandler(f, c.notifier)
}

func (c *CompositionRoot) CreateIssueOTPCommandHandler() commands.IssueOTPCommandHandler {
	var f commands.OTPUoWFactory = FuncOTPUoWFactory(func() commands.OTPUoW {
		return c.uowFactory.Create()
	})
	return commands.NewIssueOTPCommandHandler(f, c.notifier, c.config.OTPTTL, c.config.OTPDevMode)
}

func (c *CompositionRoot) CreateVerifyOTPCommandHandler() commands.VerifyOTPCommandHandler {
	var f commands.OTPUoWFactory = FuncOTPUoWFactory(func() commands.OTPUoW {
		return c.uowFactory.Create()
	})
	return commands.NewVerifyOTPCommandHandler(f, c.notifier, c.broadcaster, c.events, c.recorder)
}

func (c *CompositionRoot) CreateAttachPhotoCommandHandler() commands.AttachPhotoCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAttachPhotoCommandHandler(
		f, c.mediaStore, c.notifier, c.broadcaster, c.events, c.recorder,
		int(c.config.MaxPhotoBytes))
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateRecordLocationCommandHandler() commands.RecordLocationCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordLocationCommandHandler(f, c.broadcaster)
}

func (c *CompositionRoot) CreateSweepExpiredOTPCommandHandler() commands.SweepExpiredOTPCommandHandler {
	var f commands.OTPUoWFactory = FuncOTPUoWFactory(func() commands.OTPUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSweepExpiredOTPCommandHandler(f)
}

func (c *CompositionRoot) CreateRetryGeocodeCommandHandler() commands.RetryGeocodeCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRetryGeocodeCommandHandler(f, c.geocoder)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAvailableCouriersQueryHandler() queries.GetAvailableCouriersQueryHandler {
	return queries.NewGetAvailableCouriersQueryHandler(c.gormDB)
}

// CreateServer assembles the HTTP server with every handler wired.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateApplyTransitionCommandHandler(),
		c.CreateAssignCourierCommandHandler(),
		c.CreateIssueOTPCommandHandler(),
		c.CreateVerifyOTPCommandHandler(),
		c.CreateAttachPhotoCommandHandler(),
		c.CreateCreateCourierCommandHandler(),
		c.CreateRecordLocationCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetOrderHistoryQueryHandler(),
		c.CreateGetAvailableCouriersQueryHandler(),
		c.broadcaster,
		httpin.NewActorAuth(c.config.JWTSecret),
	)
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOTPUoWFactory func() commands.OTPUoW

func (f FuncOTPUoWFactory) Create() commands.OTPUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
