package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/moneymind/backend/internal/model"
)

// FileStore persists the snapshot as a single JSON file. Saves write to a
// temp file in the same directory and rename over the target, so readers
// never observe a partially written snapshot.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a file-backed store at path, creating the parent
// directory if needed.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (f *FileStore) Load(ctx context.Context) (model.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("snapshot unreadable, using defaults",
				zap.String("path", f.path), zap.Error(err))
		}
		return model.DefaultSnapshot(time.Now()), nil
	}

	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		f.logger.Warn("snapshot corrupt, using defaults",
			zap.String("path", f.path), zap.Error(err))
		return model.DefaultSnapshot(time.Now()), nil
	}
	normalizeSnapshot(&snap)
	return snap, nil
}

func (f *FileStore) Save(ctx context.Context, snap model.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// normalizeSnapshot repairs tolerable gaps in stored data: nil collections
// become empty and unknown categories collapse to Uncategorized.
func normalizeSnapshot(snap *model.Snapshot) {
	if snap.Transactions == nil {
		snap.Transactions = []model.Transaction{}
	}
	if snap.Goals == nil {
		snap.Goals = []model.Goal{}
	}
	for i := range snap.Transactions {
		if !snap.Transactions[i].Category.Valid() {
			snap.Transactions[i].Category = model.CategoryUncategorized
		}
	}
	if snap.Budget.Amount <= 0 {
		snap.Budget = model.DefaultSnapshot(time.Now()).Budget
	}
}
