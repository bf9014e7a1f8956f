package service

import (
	"fmt"

	"github.com/google/uuid"

	"pagecraft/internal/domain"
	"pagecraft/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Project Service — project lifecycle and camera state
// ─────────────────────────────────────────────────────────────

// ProjectService manages project metadata. Deleting a project cascades
// into its document and undo history; node sessions are the builder
// service's business.
type ProjectService struct {
	projects domain.ProjectStore
	docs     domain.DocumentStore
	undo     *storage.UndoStore
}

// NewProjectService creates a ProjectService.
func NewProjectService(projects domain.ProjectStore, docs domain.DocumentStore, undo *storage.UndoStore) *ProjectService {
	return &ProjectService{projects: projects, docs: docs, undo: undo}
}

// CreateProject creates a named project with a default camera.
func (s *ProjectService) CreateProject(name string) (*domain.Project, error) {
	if name == "" {
		name = "Untitled"
	}
	p := &domain.Project{
		ID:         uuid.New().String(),
		Name:       name,
		CameraZoom: 1.0,
	}
	if err := s.projects.CreateProject(p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// GetProject returns a project by ID.
func (s *ProjectService) GetProject(id string) (*domain.Project, error) {
	return s.projects.GetProject(id)
}

// ListProjects returns all projects.
func (s *ProjectService) ListProjects() ([]domain.Project, error) {
	return s.projects.ListProjects()
}

// RenameProject updates a project's display name.
func (s *ProjectService) RenameProject(id, name string) error {
	p, err := s.projects.GetProject(id)
	if err != nil {
		return err
	}
	p.Name = name
	return s.projects.UpdateProject(p)
}

// SaveCamera persists the canvas pan/zoom for a project.
func (s *ProjectService) SaveCamera(id string, x, y, zoom float64) error {
	p, err := s.projects.GetProject(id)
	if err != nil {
		return err
	}
	p.CameraX, p.CameraY, p.CameraZoom = x, y, zoom
	return s.projects.UpdateProject(p)
}

// DeleteProject removes a project with its document and undo history.
func (s *ProjectService) DeleteProject(id string) error {
	if err := s.docs.DeleteNodes(id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if s.undo != nil {
		if err := s.undo.ClearProject(id); err != nil {
			return fmt.Errorf("clear undo history: %w", err)
		}
	}
	return s.projects.DeleteProject(id)
}
