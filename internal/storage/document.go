package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"pagecraft/internal/domain"
)

// DocumentStore implements domain.DocumentStore using SQLite. The node
// collection is stored whole as one JSON document per project; partial
// writes would lose the sibling ordering the collection encodes.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) LoadNodes(projectID string) ([]domain.Node, error) {
	var raw string
	err := s.db.Conn().QueryRow(
		`SELECT nodes_json FROM documents WHERE project_id = ?`, projectID,
	).Scan(&raw)
	if err != nil {
		// No document yet is not an error: a fresh project has no nodes.
		return nil, nil
	}

	var nodes []domain.Node
	if err := json.Unmarshal([]byte(raw), &nodes); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", projectID, err)
	}
	return nodes, nil
}

func (s *DocumentStore) SaveNodes(projectID string, nodes []domain.Node) error {
	raw, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", projectID, err)
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO documents (project_id, nodes_json, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(project_id) DO UPDATE SET nodes_json = excluded.nodes_json, updated_at = excluded.updated_at`,
		projectID, string(raw), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("save document %s: %w", projectID, err)
	}
	return nil
}

func (s *DocumentStore) DeleteNodes(projectID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM documents WHERE project_id = ?`, projectID)
	return err
}
