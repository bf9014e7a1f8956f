package storage

import (
	"fmt"
	"time"

	"pagecraft/internal/domain"
)

// ProjectStore implements domain.ProjectStore using SQLite.
type ProjectStore struct {
	db *DB
}

func NewProjectStore(db *DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) CreateProject(p *domain.Project) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.CameraZoom == 0 {
		p.CameraZoom = 1.0
	}
	_, err := s.db.Conn().Exec(
		`INSERT INTO projects (id, name, camera_x, camera_y, camera_zoom, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.CameraX, p.CameraY, p.CameraZoom, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *ProjectStore) GetProject(id string) (*domain.Project, error) {
	p := &domain.Project{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, camera_x, camera_y, camera_zoom, created_at, updated_at FROM projects WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.CameraX, &p.CameraY, &p.CameraZoom, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *ProjectStore) ListProjects() ([]domain.Project, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, name, camera_x, camera_y, camera_zoom, created_at, updated_at FROM projects ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CameraX, &p.CameraY, &p.CameraZoom, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) UpdateProject(p *domain.Project) error {
	p.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE projects SET name = ?, camera_x = ?, camera_y = ?, camera_zoom = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.CameraX, p.CameraY, p.CameraZoom, p.UpdatedAt, p.ID,
	)
	return err
}

func (s *ProjectStore) DeleteProject(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM projects WHERE id = ?`, id)
	return err
}
