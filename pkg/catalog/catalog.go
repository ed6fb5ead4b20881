// Package catalog defines the built-in workflow templates shipped with the
// service: simple ticket, standard incident, standard change, and standard
// service request. Templates are constructed fresh on each call so no
// caller can mutate the catalog's definitions.
package catalog

import (
	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/registry"
)

// All returns the built-in templates in catalog order.
func All() []*models.WorkflowTemplate {
	return []*models.WorkflowTemplate{
		TicketSimple(),
		IncidentStandard(),
		ChangeStandard(),
		RequestStandard(),
	}
}

// Register adds every built-in template to the registry. A malformed
// built-in is a programming error caught at startup, so the first failure
// is returned immediately.
func Register(reg *registry.Registry) error {
	for _, template := range All() {
		if err := reg.RegisterTemplate(template); err != nil {
			return err
		}
	}

	return nil
}
