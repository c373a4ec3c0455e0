package driven

import (
	"context"
	"errors"

	"github.com/pkarag/opsboard/internal/domain/model"
)

// ErrDatasetNotFound indicates the requested dataset does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetStore defines the driven port for dataset metadata persistence.
//
// ListAll returns datasets in descending id order (most recent first).
// Delete is a silent no-op when the id does not exist.
type DatasetStore interface {
	// Create inserts a new dataset and returns it with the store-assigned id.
	// A zero LastUpdated is replaced with the current UTC time; a non-zero
	// value (bulk import) is preserved.
	Create(ctx context.Context, dataset model.Dataset) (*model.Dataset, error)

	ListAll(ctx context.Context) ([]model.Dataset, error)

	// Get returns the dataset with the given id, or nil, nil when absent.
	Get(ctx context.Context, id int64) (*model.Dataset, error)

	// Update rewrites all caller-editable fields and bumps last_updated to
	// the current UTC time. Returns ErrDatasetNotFound when the id does not
	// exist.
	Update(ctx context.Context, id int64, dataset model.Dataset) error

	Delete(ctx context.Context, id int64) error

	// Count returns the number of datasets. Used as the load-once import guard.
	Count(ctx context.Context) (int64, error)
}
