package routes

import (
	"github.com/gofiber/fiber/v2"

	"barangay-backend/controllers"
	"barangay-backend/middlewares"
	"barangay-backend/workflow"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)
	api.Get("/barangays", controllers.GetBarangays)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard (replays stored responses on resubmits)
	protected.Use(middlewares.Idempotency())

	// Requests: one engine entry point behind per-action routes
	protected.Post("/requests", controllers.CreateRequest)
	protected.Get("/requests", controllers.ListRequests)
	protected.Get("/requests/:id", controllers.GetRequest)
	protected.Get("/requests/:id/audit", controllers.GetAuditTrail)
	protected.Post("/requests/:id/approve", controllers.TransitionRequest(workflow.ActionApprove))
	protected.Post("/requests/:id/reject", controllers.TransitionRequest(workflow.ActionReject))
	protected.Post("/requests/:id/cancel", controllers.TransitionRequest(workflow.ActionCancel))
	protected.Post("/requests/:id/complete", controllers.TransitionRequest(workflow.ActionComplete))
	protected.Post("/requests/:id/release", controllers.TransitionRequest(workflow.ActionRelease))
	protected.Post("/requests/:id/respond", controllers.TransitionRequest(workflow.ActionRespond))
	protected.Post("/requests/:id/resolve", controllers.TransitionRequest(workflow.ActionResolve))

	// Catalog reads (any authenticated user)
	protected.Get("/items", controllers.GetItems)
	protected.Get("/benefits", controllers.GetBenefits)
	protected.Get("/document-types", controllers.GetDocumentTypes)

	// Admin-only surface
	admin := protected.Group("", middlewares.RequireAdmin())
	admin.Get("/admin/activity", controllers.AdminActivity)
	admin.Post("/items", controllers.CreateItem)
	admin.Put("/items/:id", controllers.UpdateItem)
	admin.Post("/benefits", controllers.CreateBenefit)
	admin.Post("/document-types", controllers.CreateDocumentType)
}
