// Package repository persists aggregated results and supporting dictionaries
// on the filesystem.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/danie1k/anime-metadata/internal/anidb"
	"github.com/danie1k/anime-metadata/internal/domain"
)

// FileRepository stores canonical show records as JSON files and the AniDB
// tag dictionary as YAML, both under a root directory.
type FileRepository struct {
	log  zerolog.Logger
	root string
}

// NewFileRepository creates a file-based repository rooted at root.
func NewFileRepository(log zerolog.Logger, root string) *FileRepository {
	return &FileRepository{
		log:  log.With().Str("module", "repository").Logger(),
		root: root,
	}
}

// ShowPath returns where the record for one provider's show is stored.
func (r *FileRepository) ShowPath(provider, id string) string {
	return filepath.Join(r.root, "shows", provider, id+".json")
}

// GetShow loads a previously stored canonical record.
func (r *FileRepository) GetShow(ctx context.Context, provider, id string) (*domain.Show, error) {
	path := r.ShowPath(provider, id)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open show record %s: %w", path, err)
	}
	defer f.Close()

	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read show record %s: %w", path, err)
	}

	show := &domain.Show{}
	if err := json.Unmarshal(body, show); err != nil {
		return nil, fmt.Errorf("failed to unmarshal show record %s: %w", path, err)
	}

	return show, nil
}

// StoreShow writes a canonical record, creating provider directories as
// needed.
func (r *FileRepository) StoreShow(ctx context.Context, provider string, show *domain.Show) error {
	j, err := json.MarshalIndent(show, "", "   ")
	if err != nil {
		return fmt.Errorf("failed to marshal show record: %w", err)
	}

	path := r.ShowPath(provider, show.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(j); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Str("provider", provider).Str("id", show.ID).Msg("stored show record")
	return nil
}

// GetTagDictionary loads the AniDB source-material tag dictionary. A missing
// file falls back to the built-in defaults so a fresh install works without
// any seeding.
func (r *FileRepository) GetTagDictionary(ctx context.Context, path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug().Str("path", path).Msg("tag dictionary not found, using defaults")
			// Copy so callers cannot mutate the shared defaults.
			tags := make(map[int]string, len(anidb.DefaultSourceTags))
			for id, name := range anidb.DefaultSourceTags {
				tags[id] = name
			}
			return tags, nil
		}
		return nil, fmt.Errorf("failed to open tag dictionary %s: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag dictionary %s: %w", path, err)
	}

	tags := map[int]string{}
	if err := yaml.Unmarshal(b, &tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tag dictionary %s: %w", path, err)
	}

	return tags, nil
}

// StoreTagDictionary writes the tag dictionary as YAML.
func (r *FileRepository) StoreTagDictionary(ctx context.Context, path string, tags map[int]string) error {
	b, err := yaml.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal tag dictionary: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	r.log.Debug().Str("path", path).Int("count", len(tags)).Msg("stored tag dictionary")
	return nil
}
