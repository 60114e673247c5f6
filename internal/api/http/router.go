package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bizops-service/internal/api/http/handlers"
	"github.com/spec-kit/bizops-service/internal/auth"
	"github.com/spec-kit/bizops-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Employees      *handlers.EmployeesHandler
	Clients        *handlers.ClientsHandler
	Projects       *handlers.ProjectsHandler
	Invoices       *handlers.InvoicesHandler
	Subscriptions  *handlers.SubscriptionsHandler
	Products       *handlers.ProductsHandler
	Suppliers      *handlers.SuppliersHandler
	Lots           *handlers.LotsHandler
	Sales          *handlers.SalesHandler
	AuthMiddleware *auth.Middleware
	Access         *auth.AccessChecker
	UploadsDir     string
	UploadsPrefix  string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	if cfg.UploadsDir != "" {
		app.Static(cfg.UploadsPrefix, cfg.UploadsDir)
	}

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	users := api.Group("/users", auth.RequireRole(domain.RoleAdmin))
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Deactivate)

	employees := api.Group("/employees", auth.RequireRole(domain.RoleAdmin, domain.RoleManager))
	employees.Post("/", cfg.Employees.Create)
	employees.Get("/", cfg.Employees.List)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Patch("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)

	clients := api.Group("/clients")
	clients.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee), cfg.Clients.Create)
	clients.Get("/", auth.RequireAuthenticated(), cfg.Clients.List)
	clients.Get("/:id", cfg.Access.Require(auth.ResourceClient, "id"), cfg.Clients.Get)
	clients.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee), cfg.Access.Require(auth.ResourceClient, "id"), cfg.Clients.Update)
	clients.Delete("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Clients.Delete)

	projects := api.Group("/projects")
	projects.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Projects.Create)
	projects.Get("/", auth.RequireAuthenticated(), cfg.Projects.List)
	projects.Get("/:id", cfg.Access.Require(auth.ResourceProject, "id"), cfg.Projects.Get)
	projects.Patch("/:id", cfg.Access.Require(auth.ResourceProject, "id"), cfg.Projects.Update)
	projects.Delete("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Projects.Delete)
	projects.Post("/:id/tasks", cfg.Access.Require(auth.ResourceProject, "id"), cfg.Projects.CreateTask)
	projects.Get("/:id/tasks", cfg.Access.Require(auth.ResourceProject, "id"), cfg.Projects.ListTasks)
	projects.Patch("/:id/tasks/:taskId", cfg.Access.Require(auth.ResourceProject, "id"), cfg.Projects.UpdateTask)
	projects.Delete("/:id/tasks/:taskId", cfg.Access.Require(auth.ResourceProject, "id"), cfg.Projects.DeleteTask)

	invoices := api.Group("/invoices")
	invoices.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee), cfg.Invoices.Create)
	invoices.Get("/", auth.RequireAuthenticated(), cfg.Invoices.List)
	invoices.Get("/:id", cfg.Access.Require(auth.ResourceInvoice, "id"), cfg.Invoices.Get)
	invoices.Patch("/:id/status", cfg.Access.Require(auth.ResourceInvoice, "id"), cfg.Invoices.UpdateStatus)

	subscriptions := api.Group("/subscriptions", auth.RequireRole(domain.RoleAdmin, domain.RoleManager))
	subscriptions.Post("/", cfg.Subscriptions.Create)
	subscriptions.Get("/", cfg.Subscriptions.List)
	subscriptions.Get("/:id", cfg.Subscriptions.Get)
	subscriptions.Patch("/:id", cfg.Subscriptions.Update)
	subscriptions.Post("/:id/renew", cfg.Subscriptions.Renew)
	subscriptions.Delete("/:id", cfg.Subscriptions.Delete)

	products := api.Group("/products")
	products.Get("/", auth.RequireAuthenticated(), cfg.Products.List)
	products.Get("/:id", auth.RequireAuthenticated(), cfg.Products.Get)
	products.Get("/:id/movements", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Products.Movements)
	products.Post("/", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Products.Create)
	products.Patch("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Products.Update)
	products.Delete("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleManager), cfg.Products.Delete)

	suppliers := api.Group("/suppliers", auth.RequireRole(domain.RoleAdmin, domain.RoleManager))
	suppliers.Post("/", cfg.Suppliers.Create)
	suppliers.Get("/", cfg.Suppliers.List)
	suppliers.Get("/:id", cfg.Suppliers.Get)
	suppliers.Patch("/:id", cfg.Suppliers.Update)
	suppliers.Delete("/:id", cfg.Suppliers.Delete)

	lots := api.Group("/lots", auth.RequireRole(domain.RoleAdmin, domain.RoleManager))
	lots.Post("/", cfg.Lots.Create)
	lots.Get("/", cfg.Lots.List)
	lots.Get("/:id", cfg.Lots.Get)

	sales := api.Group("/sales", auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee))
	sales.Post("/", cfg.Sales.Create)
	sales.Get("/", cfg.Sales.List)
	sales.Get("/:id", cfg.Sales.Get)
}
