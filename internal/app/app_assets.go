package app

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"pagecraft/internal/storage"
)

// ============================================================
// Media assets
// ============================================================

// SaveAssetFile saves a base64 data URL as a media file on disk and
// registers it, returning the stored path for the node's src style.
// Large base64 payloads never land in the database.
func (a *App) SaveAssetFile(projectID, dataURL string) (string, error) {
	parts := strings.SplitN(dataURL, ",", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid data URL")
	}

	kind := "image"
	ext := ".png"
	switch {
	case strings.Contains(parts[0], "image/jpeg"):
		ext = ".jpg"
	case strings.Contains(parts[0], "image/webp"):
		ext = ".webp"
	case strings.Contains(parts[0], "image/gif"):
		ext = ".gif"
	case strings.Contains(parts[0], "video/mp4"):
		kind, ext = "video", ".mp4"
	case strings.Contains(parts[0], "video/webm"):
		kind, ext = "video", ".webm"
	}

	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}

	dir := filepath.Join(a.db.AssetsDir(), projectID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	id := uuid.New().String()
	filePath := filepath.Join(dir, id+ext)
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("write asset file: %w", err)
	}

	if err := a.assetStore.RegisterAsset(&storage.Asset{
		ID:        id,
		ProjectID: projectID,
		Kind:      kind,
		FilePath:  filePath,
	}); err != nil {
		return "", fmt.Errorf("register asset: %w", err)
	}

	return filePath, nil
}

// GetAssetData reads a stored asset back as a base64 data URL. Called
// lazily by the frontend for each media node.
func (a *App) GetAssetData(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read asset: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	mime := "image/png"
	switch ext {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	case ".gif":
		mime = "image/gif"
	case ".mp4":
		mime = "video/mp4"
	case ".webm":
		mime = "video/webm"
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ListAssets returns the registered media files for a project.
func (a *App) ListAssets(projectID string) ([]storage.Asset, error) {
	return a.assetStore.ListAssets(projectID)
}

// PickMediaFile opens a native file picker for selecting a media file.
func (a *App) PickMediaFile() (string, error) {
	return wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Media File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Images", Pattern: "*.png;*.jpg;*.jpeg;*.gif;*.webp;*.svg"},
			{DisplayName: "Videos", Pattern: "*.mp4;*.webm;*.mov"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
}

// removeAssetDir deletes a project's on-disk asset directory.
func (a *App) removeAssetDir(projectID string) {
	if a.db == nil {
		return
	}
	os.RemoveAll(filepath.Join(a.db.AssetsDir(), projectID))
}
