package order

import (
	"database/sql"

	"go.uber.org/zap"

	"comandero/internal/config"
	"comandero/internal/infrastructure/mysql"
	"comandero/internal/order/controller"
	orderrepo "comandero/internal/order/repository"
	"comandero/internal/order/service"
	"comandero/internal/order/usecase"
	"comandero/internal/restaurant"
	restaurantrepo "comandero/internal/restaurant/repository"
)

type Module struct {
	Orders  *controller.OrderController
	Kitchen *controller.KitchenController
}

// Dependencies are the collaborators built outside the module. Feed may be nil when the
// notification backend has no in-process consumer.
type Dependencies struct {
	Menu      usecase.MenuService
	Parser    usecase.OrderParser
	Publisher service.Publisher
	Feed      controller.KitchenFeed
}

func NewModule(db *sql.DB, cfg *config.Config, deps Dependencies, logger *zap.Logger) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	lineRepo := orderrepo.NewMySQLOrderLineRepository(db)
	restaurantRepo := restaurantrepo.NewMySQLRestaurantRepository(db)

	lifecycle := service.NewLifecycleService(
		mysql.NewTxManager(db),
		orderRepo,
		lineRepo,
		restaurantRepo,
		deps.Publisher,
		logger,
		cfg.Order.TxTimeout,
	)

	parseUC := usecase.NewParseOrderUseCase(restaurantRepo, deps.Menu, deps.Parser, logger)
	confirmUC := usecase.NewConfirmOrderUseCase(restaurantRepo, deps.Menu, lifecycle, logger, cfg.Order.MaxRetryAttempts)
	kitchenUC := usecase.NewKitchenUseCase(lifecycle, logger, cfg.Order.MaxRetryAttempts)

	return &Module{
		Orders: controller.NewOrderController(
			parseUC,
			confirmUC,
			kitchenUC,
			restaurant.NewTableQRGenerator(cfg.Server.PublicBaseURL),
			logger,
		),
		Kitchen: controller.NewKitchenController(kitchenUC, deps.Feed, logger),
	}
}
