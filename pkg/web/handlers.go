package web

import (
	"net/http"
	"time"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	templateService   *services.Template
	entityService     *services.Entity
	transitionService *services.Transition
	validator         *validator.Validate
}

func NewAPIHandlers(
	templateService *services.Template,
	entityService *services.Entity,
	transitionService *services.Transition,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		templateService:   templateService,
		entityService:     entityService,
		transitionService: transitionService,
		validator:         validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.entityService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Flowdeck API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Flowdeck API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetTemplates(c fiber.Ctx) error {
	if entityType := c.Query("entity_type"); entityType != "" {
		templates := h.templateService.ListTemplatesByEntityType(c.Context(), models.EntityType(entityType))

		return c.JSON(fiber.Map{"templates": templates})
	}

	templates := h.templateService.ListTemplates(c.Context())

	return c.JSON(fiber.Map{"templates": templates})
}

func (h *APIHandlers) GetTemplate(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	template, err := h.templateService.GetTemplate(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(template)
}

func (h *APIHandlers) GetTemplateStatuses(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Template ID is required")
	}

	statuses, err := h.templateService.ListStatuses(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"statuses": statuses})
}

func (h *APIHandlers) CreateTemplate(c fiber.Ctx) error {
	var template models.WorkflowTemplate
	if err := c.Bind().JSON(&template); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if template.ID == "" || template.Name == "" {
		return badRequest(c, "Template id and name are required")
	}

	if err := h.templateService.SaveTemplate(c.Context(), &template); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(template)
}

func (h *APIHandlers) CreateEntity(c fiber.Ctx) error {
	var req CreateEntityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	entity, err := h.entityService.CreateEntity(c.Context(), services.CreateEntityRequest{
		TemplateID:  req.TemplateID,
		Title:       req.Title,
		RequesterID: req.RequesterID,
		AssigneeID:  req.AssigneeID,
		Fields:      req.Fields,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(entity)
}

func (h *APIHandlers) GetEntities(c fiber.Ctx) error {
	entities, err := h.entityService.ListEntities(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"entities": entities})
}

func (h *APIHandlers) GetEntity(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	entity, err := h.entityService.GetEntity(c.Context(), id)
	if err != nil {
		if persistence.IsEntityNotFound(err) {
			return notFound(c, "Entity not found")
		}

		return internalError(c, err)
	}

	return c.JSON(entity)
}

func (h *APIHandlers) UpdateEntity(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	var req UpdateEntityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	entity, err := h.entityService.UpdateFields(c.Context(), id, req.Fields)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(entity)
}

func (h *APIHandlers) DeleteEntity(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	if err := h.entityService.DeleteEntity(c.Context(), id); err != nil {
		if persistence.IsEntityNotFound(err) {
			return notFound(c, "Entity not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetEntityTransitions lists the transitions declared from the entity's
// current status. Conditions are not pre-evaluated; an ineligible transition
// fails at apply time instead.
func (h *APIHandlers) GetEntityTransitions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	transitions, err := h.transitionService.AvailableTransitions(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	responses := make([]TransitionResponse, 0, len(transitions))
	for _, transition := range transitions {
		responses = append(responses, TransformTransitionResponse(transition))
	}

	return c.JSON(fiber.Map{"transitions": responses})
}

// ApplyTransition applies the transition named in the URL. Transitions are
// addressed by id only; there is no selection by (from, to) pair.
func (h *APIHandlers) ApplyTransition(c fiber.Ctx) error {
	entityID := c.Params("id")
	if entityID == "" {
		return badRequest(c, "Entity ID is required")
	}

	transitionID := c.Params("transitionId")
	if transitionID == "" {
		return badRequest(c, "Transition ID is required")
	}

	var req ApplyTransitionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.transitionService.ApplyTransition(c.Context(), services.ApplyTransitionRequest{
		EntityID:     entityID,
		TransitionID: transitionID,
		User:         req.User.toModel(),
		Proposed:     req.Proposed,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) GetEntityComments(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	comments, err := h.entityService.ListComments(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"comments": comments})
}

func (h *APIHandlers) AddEntityComment(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	var req AddCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	comment, err := h.entityService.AddComment(c.Context(), id, req.AuthorID, req.Body)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *APIHandlers) GetEntityTasks(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Entity ID is required")
	}

	tasks, err := h.entityService.ListTasks(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"tasks": tasks})
}
