package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/billboardhub/billboard-market/internal/api/http/handlers"
)

// APIPrefix is the base path of every business route.
const APIPrefix = "/api/v1"

// RouteConfig bundles dependencies for route registration. AdminGate and
// UserGate admit a single principal kind; AnyGate admits either.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Users     *handlers.UsersHandler
	Admins    *handlers.AdminsHandler
	Locations *handlers.LocationsHandler
	Products  *handlers.ProductsHandler
	Orders    *handlers.OrdersHandler

	AdminGate fiber.Handler
	UserGate  fiber.Handler
	AnyGate   fiber.Handler

	Metrics http.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/ping", cfg.Health.Ping)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics))
	}

	api := app.Group(APIPrefix)
	admin, user, either := cfg.AdminGate, cfg.UserGate, cfg.AnyGate

	api.Post("/signup", cfg.Users.Signup)
	api.Post("/login", cfg.Users.Login)
	api.Post("/logout", user, cfg.Users.Logout)
	api.Post("/logoutAll", user, cfg.Users.LogoutAll)
	api.Get("/profile", user, cfg.Users.Profile)
	api.Patch("/updateInfo", user, cfg.Users.UpdateInfo)
	api.Patch("/updatePassword", user, cfg.Users.UpdatePassword)
	api.Patch("/uploadAvatar", user, cfg.Users.UploadAvatar)
	api.Patch("/deleteUser", user, cfg.Users.Delete)

	api.Post("/admin/signup", cfg.Admins.Signup)
	api.Post("/admin/login", cfg.Admins.Login)
	api.Post("/admin/logout", admin, cfg.Admins.Logout)
	api.Post("/admin/logoutAll", admin, cfg.Admins.LogoutAll)
	api.Get("/admin/profile", admin, cfg.Admins.Profile)
	api.Patch("/admin/updateInfo", admin, cfg.Admins.UpdateInfo)
	api.Patch("/admin/updatePassword", admin, cfg.Admins.UpdatePassword)
	api.Patch("/admin/delete", admin, cfg.Admins.Delete)

	api.Post("/location/state/create", admin, cfg.Locations.CreateState)
	api.Post("/location/area/create", admin, cfg.Locations.CreateArea)
	api.Get("/location/state/all", admin, cfg.Locations.ListStates)
	api.Get("/location/state", admin, cfg.Locations.GetState)
	api.Get("/location/area", admin, cfg.Locations.GetArea)
	api.Get("/location/areasInAState", admin, cfg.Locations.ListAreasInState)

	api.Post("/product/create", admin, cfg.Products.Create)
	api.Patch("/product/uploadImage/:productId", admin, cfg.Products.UploadImage)
	api.Patch("/product/update/:productId", admin, cfg.Products.Update)
	api.Delete("/product/delete/:productId", admin, cfg.Products.Delete)
	api.Get("/product/:productId", either, cfg.Products.Get)
	api.Get("/products", either, cfg.Products.List)
	api.Get("/productsByState", either, cfg.Products.ListByState)
	api.Get("/productsByArea", either, cfg.Products.ListByArea)

	api.Post("/order/create/:productId", user, cfg.Orders.Create)
	api.Get("/order/:orderId", user, cfg.Orders.Get)
	api.Get("/orders", user, cfg.Orders.ListMine)
	api.Get("/admin/orders", admin, cfg.Orders.ListAll)
	api.Patch("/admin/order/:orderId/status", admin, cfg.Orders.UpdateStatus)

	api.Post("/quote/:orderId", admin, cfg.Orders.CreateQuote)
	api.Patch("/quote/:quoteId", admin, cfg.Orders.UpdateQuote)
	api.Get("/quote/:quoteId", admin, cfg.Orders.GetQuote)

	app.Use(notFound)
}
