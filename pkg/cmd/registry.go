// Package cmd provides common initialization for the flowdeck binaries.
package cmd

import (
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/catalog"
	"github.com/flowdeck/flowdeck/pkg/conditions/fieldvalue"
	"github.com/flowdeck/flowdeck/pkg/conditions/permission"
	"github.com/flowdeck/flowdeck/pkg/conditions/requester"
	"github.com/flowdeck/flowdeck/pkg/conditions/timeelapsed"
	"github.com/flowdeck/flowdeck/pkg/conditions/timewindow"
	"github.com/flowdeck/flowdeck/pkg/eventbus"
	"github.com/flowdeck/flowdeck/pkg/persistence"
	"github.com/flowdeck/flowdeck/pkg/postfunctions/autocomment"
	"github.com/flowdeck/flowdeck/pkg/postfunctions/createtasks"
	"github.com/flowdeck/flowdeck/pkg/postfunctions/fieldupdate"
	"github.com/flowdeck/flowdeck/pkg/postfunctions/notification"
	"github.com/flowdeck/flowdeck/pkg/postfunctions/slaclock"
	"github.com/flowdeck/flowdeck/pkg/postfunctions/survey"
	"github.com/flowdeck/flowdeck/pkg/registry"
	"github.com/flowdeck/flowdeck/pkg/sla"
	"github.com/flowdeck/flowdeck/pkg/validators/requiredfield"
)

// RegistryDeps are the runtime dependencies post-function executors bind to.
type RegistryDeps struct {
	Persistence persistence.Persistence
	Publisher   eventbus.EventPublisher
	SLATracker  sla.Tracker
	SLATargets  sla.Targets
}

// NewRegistry builds the component registry: the built-in condition,
// validator, and post-function factories plus the built-in template catalog.
// When templatesPath is non-empty, user-defined template files are loaded
// from it as well; a malformed file aborts startup.
func NewRegistry(logger *slog.Logger, deps RegistryDeps, templatesPath string) *registry.Registry {
	reg := registry.NewRegistry(logger)

	registerConditions(reg)
	registerValidators(reg)
	registerPostFunctions(reg, deps)

	if err := catalog.Register(reg); err != nil {
		panic(err)
	}

	if templatesPath != "" {
		if err := reg.LoadTemplatesFromDirectory(templatesPath); err != nil {
			panic(err)
		}
	}

	return reg
}

func registerConditions(reg *registry.Registry) {
	reg.RegisterCondition(permission.NewConditionFactory())
	reg.RegisterCondition(fieldvalue.NewConditionFactory())
	reg.RegisterCondition(timeelapsed.NewConditionFactory())
	reg.RegisterCondition(timewindow.NewConditionFactory())
	reg.RegisterCondition(requester.NewConditionFactory())
}

func registerValidators(reg *registry.Registry) {
	reg.RegisterValidator(requiredfield.NewValidatorFactory())
}

func registerPostFunctions(reg *registry.Registry, deps RegistryDeps) {
	reg.RegisterPostFunction(notification.NewPostFunctionFactory(deps.Publisher))
	reg.RegisterPostFunction(survey.NewPostFunctionFactory(deps.Publisher))
	reg.RegisterPostFunction(fieldupdate.NewPostFunctionFactory(deps.Persistence.EntityRepository()))
	reg.RegisterPostFunction(autocomment.NewPostFunctionFactory(deps.Persistence.CommentRepository()))
	reg.RegisterPostFunction(createtasks.NewPostFunctionFactory(deps.Persistence.TaskRepository()))
	reg.RegisterPostFunction(slaclock.NewStartFactory(deps.SLATracker, deps.SLATargets))
	reg.RegisterPostFunction(slaclock.NewStopFactory(deps.SLATracker, deps.SLATargets))
	reg.RegisterPostFunction(slaclock.NewPauseFactory(deps.SLATracker, deps.SLATargets))
	reg.RegisterPostFunction(slaclock.NewResumeFactory(deps.SLATracker, deps.SLATargets))
}
