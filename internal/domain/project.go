package domain

import "time"

// Project is one builder document: a named page with its own node
// collection, plus the persisted canvas camera.
type Project struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CameraX    float64   `json:"cameraX"`
	CameraY    float64   `json:"cameraY"`
	CameraZoom float64   `json:"cameraZoom"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProjectState is the full bundle the frontend renders: project
// metadata plus the current node collection.
type ProjectState struct {
	Project Project `json:"project"`
	Nodes   []Node  `json:"nodes"`
}

type ProjectStore interface {
	CreateProject(p *Project) error
	GetProject(id string) (*Project, error)
	ListProjects() ([]Project, error)
	UpdateProject(p *Project) error
	DeleteProject(id string) error
}

// DocumentStore persists each project's node collection as-is. The
// graph engine never touches it; save/load is an external concern.
type DocumentStore interface {
	LoadNodes(projectID string) ([]Node, error)
	SaveNodes(projectID string, nodes []Node) error
	DeleteNodes(projectID string) error
}
