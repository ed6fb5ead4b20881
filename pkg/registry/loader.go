package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// templateSchema is the shape user-defined template files must match before
// they are decoded. Structural invariants (status references, initial
// status) are checked afterwards by RegisterTemplate.
var templateSchema = map[string]any{
	"type":     "object",
	"required": []string{"id", "name", "entity_type", "config"},
	"properties": map[string]any{
		"id":          map[string]any{"type": "string", "minLength": 1},
		"name":        map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"entity_type": map[string]any{"type": "string", "minLength": 1},
		"category":    map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
		"config": map[string]any{
			"type":     "object",
			"required": []string{"initial_status", "statuses", "transitions"},
			"properties": map[string]any{
				"initial_status": map[string]any{"type": "string", "minLength": 1},
				"statuses": map[string]any{
					"type":     "array",
					"minItems": 1,
					"items": map[string]any{
						"type":     "object",
						"required": []string{"id", "name", "category"},
						"properties": map[string]any{
							"id":       map[string]any{"type": "string", "minLength": 1},
							"name":     map[string]any{"type": "string", "minLength": 1},
							"category": map[string]any{"enum": []string{"todo", "in_progress", "done"}},
						},
					},
				},
				"transitions": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":     "object",
						"required": []string{"id", "name", "from_status", "to_status"},
						"properties": map[string]any{
							"id":          map[string]any{"type": "string", "minLength": 1},
							"name":        map[string]any{"type": "string", "minLength": 1},
							"from_status": map[string]any{"type": "string", "minLength": 1},
							"to_status":   map[string]any{"type": "string", "minLength": 1},
						},
					},
				},
			},
		},
	},
}

// LoadTemplatesFromDirectory reads every .json file in dir as a workflow
// template, validates it against the template schema, and registers it. The
// first malformed file aborts loading so a broken catalog never half-loads.
func (r *Registry) LoadTemplatesFromDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read templates directory %s: %w", dir, err)
	}

	loaded := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if err := r.loadTemplateFile(path); err != nil {
			return err
		}

		loaded++
	}

	r.logger.Info("Loaded workflow templates from directory", "path", dir, "count", loaded)

	return nil
}

func (r *Registry) loadTemplateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	if err := validateTemplateDocument(data); err != nil {
		return &models.MalformedTemplateError{
			TemplateID: path,
			Reason:     err.Error(),
		}
	}

	var template models.WorkflowTemplate
	if err := json.Unmarshal(data, &template); err != nil {
		return fmt.Errorf("failed to decode template file %s: %w", path, err)
	}

	if err := r.RegisterTemplate(&template); err != nil {
		return fmt.Errorf("failed to register template from %s: %w", path, err)
	}

	return nil
}

func validateTemplateDocument(data []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(templateSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			messages = append(messages, resultError.String())
		}

		return fmt.Errorf("JSON schema validation failed: %s", strings.Join(messages, "; "))
	}

	return nil
}
