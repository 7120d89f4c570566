// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/helexia/contractrisk/schema"
)

// ProjectStore defines the persistence operations for projects.
// Each project is stored with its risks, deadlines and change requests as one aggregate.
type ProjectStore interface {
	// ListProjects returns every stored project, most recently saved first.
	ListProjects(ctx context.Context) ([]schema.Project, error)

	// GetProject returns the project with the given ID or ErrProjectNotFound.
	GetProject(ctx context.Context, id string) (schema.Project, error)

	// SaveProject inserts or replaces the whole project aggregate.
	SaveProject(ctx context.Context, p schema.Project) error

	// DeleteProject removes a project and everything it owns, or returns ErrProjectNotFound.
	DeleteProject(ctx context.Context, id string) error

	// GetStatus returns status information about the store.
	GetStatus(ctx context.Context) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// StoreManager defines the interface for accessing the project store.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetProjectStore() ProjectStore
}

// TextGenerator produces free text from a prompt, typically through a generative AI API.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
