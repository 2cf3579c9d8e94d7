// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"crm-service/internal/config"
	contactHandler "crm-service/internal/handlers/contact"
	customerHandler "crm-service/internal/handlers/customer"
	dashboardHandler "crm-service/internal/handlers/dashboard"
	orderHandler "crm-service/internal/handlers/order"
	"crm-service/internal/middleware"
	"crm-service/internal/pkg/view"
	"crm-service/internal/repository/postgres"
	contactUsecase "crm-service/internal/service/contact"
	customerUsecase "crm-service/internal/service/customer"
	dashboardUsecase "crm-service/internal/service/dashboard"
	orderUsecase "crm-service/internal/service/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- PostgreSQL -----
	pool, err := postgres.Connect(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Repositories -----
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	// ----- Services -----
	customerService := customerUsecase.NewCustomerService(customerRepo, orderRepo, contactRepo, logger)
	orderService := orderUsecase.NewOrderService(orderRepo, customerRepo, productRepo, logger)
	contactService := contactUsecase.NewContactService(contactRepo, customerRepo, userRepo, logger)
	dashboardService := dashboardUsecase.NewDashboardService(customerRepo, orderRepo, contactRepo, logger)

	// ----- Handlers -----
	dashboardHandlerInst := dashboardHandler.NewDashboardHandler(dashboardService)
	customerHandlerInst := customerHandler.NewCustomerHandler(customerService)
	orderHandlerInst := orderHandler.NewOrderHandler(orderService, customerService, productRepo)
	contactHandlerInst := contactHandler.NewContactHandler(contactService, customerService)

	// ----- Templates & Middlewares -----
	s.engine.SetHTMLTemplate(view.Must(s.cfg.Location))
	s.engine.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
	)

	// ----- Router -----
	handlers := &Handlers{
		DashboardHandler: dashboardHandlerInst,
		CustomerHandler:  customerHandlerInst,
		OrderHandler:     orderHandlerInst,
		ContactHandler:   contactHandlerInst,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
