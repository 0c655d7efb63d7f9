package main

import (
	"context"
	"time"

	"github.com/anchorbill/anchorbill/internal/api"
	"github.com/anchorbill/anchorbill/internal/config"
	"github.com/anchorbill/anchorbill/internal/domain/customer"
	"github.com/anchorbill/anchorbill/internal/domain/invoice"
	"github.com/anchorbill/anchorbill/internal/domain/payment"
	"github.com/anchorbill/anchorbill/internal/domain/subscription"
	"github.com/anchorbill/anchorbill/internal/domain/task"
	"github.com/anchorbill/anchorbill/internal/logger"
	"github.com/anchorbill/anchorbill/internal/provider"
	"github.com/anchorbill/anchorbill/internal/repository/inmemory"
	"github.com/anchorbill/anchorbill/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Repositories
			provideCustomerRepository,
			provideSubscriptionRepository,
			provideInvoiceRepository,
			providePaymentRepository,
			provideTaskRepository,

			// Payment provider
			provider.NewProvider,

			// Services
			provideServiceParams,
			service.NewSubscriptionService,
			service.NewBillingService,
			service.NewSchedulerService,
			service.NewPaymentService,

			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startScheduler,
			startServer,
		),
	)
	app.Run()
}

func provideCustomerRepository() customer.Repository {
	return inmemory.NewInMemoryCustomerStore()
}

func provideSubscriptionRepository() subscription.Repository {
	return inmemory.NewInMemorySubscriptionStore()
}

func provideInvoiceRepository() invoice.Repository {
	return inmemory.NewInMemoryInvoiceStore()
}

func providePaymentRepository() payment.Repository {
	return inmemory.NewInMemoryPaymentStore()
}

func provideTaskRepository() task.Repository {
	return inmemory.NewInMemoryTaskStore()
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	customerRepo customer.Repository,
	subscriptionRepo subscription.Repository,
	invoiceRepo invoice.Repository,
	paymentRepo payment.Repository,
	taskRepo task.Repository,
	paymentProvider payment.Provider,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		CustomerRepo:     customerRepo,
		SubscriptionRepo: subscriptionRepo,
		InvoiceRepo:      invoiceRepo,
		PaymentRepo:      paymentRepo,
		TaskRepo:         taskRepo,
		PaymentProvider:  paymentProvider,
	}
}

func provideHandlers(
	paymentService service.PaymentService,
	log *logger.Logger,
) api.Handlers {
	return api.Handlers{
		Payment: paymentService,
		Logger:  log,
	}
}

func provideRouter(handlers api.Handlers) *gin.Engine {
	return api.NewRouter(handlers)
}

func startScheduler(
	lc fx.Lifecycle,
	scheduler service.SchedulerService,
	log *logger.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting billing scheduler...")
			go scheduler.Start(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			log.Info("Stopping billing scheduler...")
			cancel()
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting API server...")
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return nil
		},
	})
}
