// Package file provides file-based persistence for entities, comments,
// tasks, and user-defined templates. One JSON document per record, intended
// for development and tests.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/flowdeck/flowdeck/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface on the file
// system.
type Persistence struct {
	root         string
	entityRepo   *EntityRepository
	commentRepo  *CommentRepository
	taskRepo     *TaskRepository
	templateRepo *TemplateRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		entityRepo:   NewEntityRepository(cleanRoot),
		commentRepo:  NewCommentRepository(cleanRoot),
		taskRepo:     NewTaskRepository(cleanRoot),
		templateRepo: NewTemplateRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. Nothing to release for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) EntityRepository() persistence.EntityRepository {
	return fp.entityRepo
}

func (fp *Persistence) CommentRepository() persistence.CommentRepository {
	return fp.commentRepo
}

func (fp *Persistence) TaskRepository() persistence.TaskRepository {
	return fp.taskRepo
}

func (fp *Persistence) TemplateRepository() persistence.TemplateRepository {
	return fp.templateRepo
}
