package library

import (
	"strconv"

	"subdaap-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the live model read-only over HTTP.
type Handler struct {
	model  *Model
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(model *Model, logger *zap.Logger) *Handler {
	return &Handler{model: model, logger: logger}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/databases")
	group.Get("/", h.HandleListDatabases)
	group.Get("/:db/items", h.HandleListItems)
	group.Get("/:db/items/:item", h.HandleGetItem)
	group.Get("/:db/containers", h.HandleListContainers)
	group.Get("/:db/containers/:container/items", h.HandleListContainerItems)
}

// HandleListDatabases returns every database of the live model.
func (h *Handler) HandleListDatabases(c *fiber.Ctx) error {
	return c.JSON(h.model.Databases())
}

// HandleListItems returns the items of a database.
func (h *Handler) HandleListItems(c *fiber.Ctx) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(view.Items())
}

// HandleGetItem returns one item.
func (h *Handler) HandleGetItem(c *fiber.Ctx) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Params("item"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}
	item, ok := view.Item(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "item not found")
	}
	return c.JSON(item)
}

// HandleListContainers returns the containers of a database.
func (h *Handler) HandleListContainers(c *fiber.Ctx) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	return c.JSON(view.Containers())
}

// HandleListContainerItems returns the members of a container in order.
func (h *Handler) HandleListContainerItems(c *fiber.Ctx) error {
	view, err := h.view(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Params("container"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid container id")
	}
	if _, ok := view.Container(id); !ok {
		return fiber.NewError(fiber.StatusNotFound, "container not found")
	}
	return c.JSON(view.ContainerItems(id))
}

func (h *Handler) view(c *fiber.Ctx) (*View, error) {
	id, err := strconv.ParseInt(c.Params("db"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid database id")
	}
	view, ok := h.model.View(id)
	if !ok {
		logger.WithRayID(h.logger, c).Debug("Unknown database requested", zap.Int64("database_id", id))
		return nil, fiber.NewError(fiber.StatusNotFound, "database not found")
	}
	return view, nil
}
