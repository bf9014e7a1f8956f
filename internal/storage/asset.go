package storage

import (
	"fmt"
	"time"
)

// Asset is one uploaded media file referenced by image or video nodes.
type Asset struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Kind      string    `json:"kind"` // "image" or "video"
	FilePath  string    `json:"filePath"`
	CreatedAt time.Time `json:"createdAt"`
}

// AssetStore tracks uploaded media files in SQLite.
type AssetStore struct {
	db *DB
}

func NewAssetStore(db *DB) *AssetStore {
	return &AssetStore{db: db}
}

func (s *AssetStore) RegisterAsset(a *Asset) error {
	a.CreatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`INSERT INTO assets (id, project_id, kind, file_path, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.ProjectID, a.Kind, a.FilePath, a.CreatedAt,
	)
	return err
}

func (s *AssetStore) ListAssets(projectID string) ([]Asset, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, project_id, kind, file_path, created_at FROM assets WHERE project_id = ? ORDER BY created_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.ProjectID, &a.Kind, &a.FilePath, &a.CreatedAt); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// DeleteAssetsByProject drops the records; the app layer removes the
// files, since it owns the assets directory.
func (s *AssetStore) DeleteAssetsByProject(projectID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM assets WHERE project_id = ?`, projectID)
	if err != nil {
		return fmt.Errorf("delete assets: %w", err)
	}
	return nil
}
