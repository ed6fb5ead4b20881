package web

import (
	"errors"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/services"
	"github.com/flowdeck/flowdeck/pkg/workflow"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType("conflict").
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps service and engine errors to problem responses.
// ConditionNotMet and ValidationFailed are expected user-facing outcomes;
// their messages reach the client verbatim.
func handleServiceError(c fiber.Ctx, err error) error {
	var (
		conditionErr  *workflow.ConditionNotMetError
		validationErr *workflow.ValidationError
		malformedErr  *models.MalformedTemplateError
	)

	switch {
	case errors.As(err, &conditionErr):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("condition_not_met").
			WithDetail(conditionErr.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"type":           problem.Type,
			"title":          problem.Title,
			"status":         problem.Status,
			"detail":         problem.Detail,
			"instance":       problem.Instance,
			"transition_id":  conditionErr.TransitionID,
			"condition_type": conditionErr.Condition.Type,
		})

	case errors.As(err, &validationErr):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("validation_failed").
			WithDetail(validationErr.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"type":          problem.Type,
			"title":         problem.Title,
			"status":        problem.Status,
			"detail":        problem.Detail,
			"instance":      problem.Instance,
			"transition_id": validationErr.TransitionID,
			"failures":      validationErr.Failures,
		})

	case errors.As(err, &malformedErr):
		return badRequest(c, malformedErr.Error())

	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case services.IsConflict(err):
		return conflict(c, err.Error())

	case services.IsNotFound(err):
		return notFound(c, err.Error())

	default:
		return internalError(c, err)
	}
}
