package menu

import (
	"go.uber.org/zap"

	"comandero/internal/infrastructure/mysql"
	"comandero/internal/menu/controller"
	"comandero/internal/menu/repository"
	"comandero/internal/menu/service"
	"comandero/internal/menu/usecase"
	restaurantrepo "comandero/internal/restaurant/repository"
)

// Module exposes the snapshot service to the order module and the public menu endpoint to the router.
type Module struct {
	Service    *service.MenuService
	Controller *controller.MenuController
}

func NewModule(db mysql.DBTX, logger *zap.Logger) *Module {
	repo := repository.NewMySQLMenuRepository(db)
	restaurantRepo := restaurantrepo.NewMySQLRestaurantRepository(db)
	svc := service.NewMenuService(repo, logger)
	uc := usecase.NewGetMenuUseCase(restaurantRepo, svc, logger)
	return &Module{
		Service:    svc,
		Controller: controller.NewMenuController(uc, logger),
	}
}
