// Package checkpoint persists collected feed batches as JSON files. The
// files are the durable boundary between the collection and synthesis
// stages; their schema is a stable contract.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/robcarv/news-colletector/internal/domain"
	"github.com/robcarv/news-colletector/internal/ports"
)

const fileSuffix = "_news.json"

// Store reads and writes batch checkpoint files under one directory.
type Store struct {
	dir string
}

var _ ports.BatchStore = (*Store)(nil)

// NewStore creates the directory if needed and returns a store rooted at
// it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create checkpoint dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the batch to <sourceID>_news.json atomically: the content
// lands in a temp file first and is renamed into place, so readers never
// observe a partial write.
func (s *Store) Save(batch domain.FeedBatch) (string, error) {
	if batch.SourceID == "" {
		return "", fmt.Errorf("batch has no source identifier")
	}

	raw, err := json.MarshalIndent(batch, "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}

	final := filepath.Join(s.dir, batch.SourceID+fileSuffix)

	tmp, err := os.CreateTemp(s.dir, batch.SourceID+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp checkpoint: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close checkpoint: %w", err)
	}

	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("publish checkpoint: %w", err)
	}

	return final, nil
}

// Load reads one checkpoint file back into a batch. The source
// identifier is recovered from the filename.
func (s *Store) Load(path string) (domain.FeedBatch, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.FeedBatch{}, fmt.Errorf("read checkpoint %s: %w", path, err)
	}

	var batch domain.FeedBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return domain.FeedBatch{}, fmt.Errorf("parse checkpoint %s: %w", path, err)
	}

	batch.SourceID = strings.TrimSuffix(filepath.Base(path), fileSuffix)
	return batch, nil
}

// List enumerates checkpoint files in stable name order.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}

	sort.Strings(paths)
	return paths, nil
}
