package controllers

import (
	"encoding/json"
	"strings"

	"barangay-backend/database"
	"barangay-backend/models"
	"barangay-backend/utils"
	"barangay-backend/workflow"

	"github.com/gofiber/fiber/v2"
)

var (
	engine *workflow.Engine
	audit  *workflow.Sink
)

// Init wires the workflow engine and audit sink; called once from main.
func Init(e *workflow.Engine, s *workflow.Sink) {
	engine = e
	audit = s
}

func actorFromCtx(c *fiber.Ctx) workflow.Actor {
	userID, _ := c.Locals("userID").(string)
	role, _ := c.Locals("role").(string)
	barangayID, _ := c.Locals("barangayID").(uint)
	return workflow.Actor{ID: userID, Role: models.Role(role), BarangayID: barangayID}
}

type CreateRequestDTO struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// POST /api/requests
func CreateRequest(c *fiber.Ctx) error {
	var in CreateRequestDTO
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(in.Kind) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing kind")
	}
	if len(in.Payload) == 0 {
		in.Payload = json.RawMessage("{}")
	}

	req, err := engine.Create(actorFromCtx(c), models.Kind(in.Kind), in.Payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// GET /api/requests
func ListRequests(c *fiber.Ctx) error {
	page, err := workflow.List(database.DB, actorFromCtx(c), workflow.Filters{
		Status:  models.Status(c.Query("status")),
		Kind:    models.Kind(c.Query("kind")),
		Search:  c.Query("q"),
		Page:    utils.ParseIntDefault(c.Query("page"), 1),
		PerPage: utils.ParseIntDefault(c.Query("per_page"), 20),
	})
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// GET /api/requests/:id
func GetRequest(c *fiber.Ctx) error {
	req, err := workflow.Get(database.DB, actorFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(req)
}

// TransitionRequest serves every status-change route; the action comes from
// the route registration, the rest from the workflow rule table.
// POST /api/requests/:id/<action>
func TransitionRequest(action workflow.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var fields workflow.Fields
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&fields); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}

		req, err := engine.Transition(actorFromCtx(c), c.Params("id"), action, fields)
		if err != nil {
			return err
		}
		return c.JSON(req)
	}
}

// GET /api/requests/:id/audit
func GetAuditTrail(c *fiber.Ctx) error {
	// Reuse the detail read check: owner or admin.
	req, err := workflow.Get(database.DB, actorFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	events, err := audit.Trail(req.Id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"request_id": req.Id, "events": events})
}

// GET /api/admin/activity
func AdminActivity(c *fiber.Ctx) error {
	events, err := audit.Recent(utils.ParseIntDefault(c.Query("limit"), 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"events": events})
}
