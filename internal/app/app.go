package app

import (
	"fmt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/ws"
	"catalog/pkg/clock"
	"catalog/pkg/validator"
)

// Deps are the collaborators created outside the HTTP app.
type Deps struct {
	Clock clock.Clock
	// Events receives product events in addition to the WebSocket hub. May be nil.
	Events services.EventPublisher
	// Hub serves /ws/products when non-nil.
	Hub *ws.Hub
	// DisableRequestLog turns off the access log middleware.
	DisableRequestLog bool
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(cfg config.Config, db *gorm.DB, deps Deps) (*fiber.App, *services.AuthService, error) {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	v := validator.New(deps.Clock)
	txManager := repositories.NewGORMTxManager(db)
	userRepo := repositories.NewGORMUserRepository(db)

	var publishers services.MultiPublisher
	if deps.Events != nil {
		publishers = append(publishers, deps.Events)
	}
	if deps.Hub != nil {
		publishers = append(publishers, services.NewBroadcastPublisher(deps.Hub))
	}
	var events services.EventPublisher
	if len(publishers) > 0 {
		events = publishers
	}

	productService := services.NewProductService(txManager, v, events, deps.Clock)
	brandService := services.NewBrandService(txManager, v)
	categoryService := services.NewCategoryService(txManager)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, deps.Clock)

	app := fiber.New(fiber.Config{
		AppName:      "Product Catalog",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	if !deps.DisableRequestLog {
		app.Use(logger.New())
	}

	guard := fiber.Handler(middleware.Passthrough)
	if cfg.AuthEnabled {
		guard = middleware.AuthRequired(authService)
	}

	handlers.NewHealthHandler(sqlDB).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, v).RegisterRoutes(app)
	handlers.NewProductHandler(productService).RegisterRoutes(app, guard)
	handlers.NewBrandHandler(brandService).RegisterRoutes(app, guard)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(app)

	if deps.Hub != nil {
		hub := deps.Hub
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws/products", websocket.New(hub.Serve))
	}

	return app, authService, nil
}
