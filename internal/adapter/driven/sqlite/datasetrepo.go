package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pkarag/opsboard/internal/domain/model"
	"github.com/pkarag/opsboard/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DatasetStore = (*DatasetRepo)(nil)

// DatasetRepo is the SQLite implementation of the DatasetStore port interface.
type DatasetRepo struct {
	db *DB
}

// NewDatasetRepo creates a new DatasetRepo backed by the given DB.
func NewDatasetRepo(db *DB) *DatasetRepo {
	return &DatasetRepo{db: db}
}

// Create inserts a new dataset. A zero LastUpdated is replaced with the
// current UTC time; bulk imports pass the timestamp from the source data.
func (r *DatasetRepo) Create(ctx context.Context, dataset model.Dataset) (*model.Dataset, error) {
	const query = `INSERT INTO datasets
		(dataset_name, source, owner, row_count, size_mb, sensitivity, last_updated, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	updated := dataset.LastUpdated
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		dataset.DatasetName, dataset.Source, dataset.Owner, dataset.Rows, dataset.SizeMB,
		dataset.Sensitivity, updated.Format(time.RFC3339Nano), dataset.Status)
	if err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create dataset: last insert id: %w", err)
	}

	dataset.ID = id
	dataset.LastUpdated = updated
	return &dataset, nil
}

// ListAll returns all datasets in descending id order (most recent first).
func (r *DatasetRepo) ListAll(ctx context.Context) ([]model.Dataset, error) {
	const query = `SELECT id, dataset_name, source, owner, row_count, size_mb, sensitivity, last_updated, status
		FROM datasets ORDER BY id DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []model.Dataset
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		datasets = append(datasets, *dataset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}

	return datasets, nil
}

// Get retrieves a dataset by id. Returns nil, nil when the id does not exist.
func (r *DatasetRepo) Get(ctx context.Context, id int64) (*model.Dataset, error) {
	const query = `SELECT id, dataset_name, source, owner, row_count, size_mb, sensitivity, last_updated, status
		FROM datasets WHERE id = ?`

	dataset, err := scanDataset(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset %d: %w", id, err)
	}

	return dataset, nil
}

// Update rewrites all caller-editable fields and bumps last_updated to the
// current UTC time. Returns driven.ErrDatasetNotFound when the id does not
// exist.
func (r *DatasetRepo) Update(ctx context.Context, id int64, dataset model.Dataset) error {
	const query = `UPDATE datasets
		SET dataset_name = ?, source = ?, owner = ?, row_count = ?, size_mb = ?, sensitivity = ?, last_updated = ?, status = ?
		WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query,
		dataset.DatasetName, dataset.Source, dataset.Owner, dataset.Rows, dataset.SizeMB,
		dataset.Sensitivity, time.Now().UTC().Format(time.RFC3339Nano), dataset.Status, id)
	if err != nil {
		return fmt.Errorf("update dataset %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update dataset %d: %w", id, driven.ErrDatasetNotFound)
	}

	return nil
}

// Delete removes the dataset with the given id. No-op when the id is absent.
func (r *DatasetRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM datasets WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete dataset %d: %w", id, err)
	}

	return nil
}

// Count returns the number of datasets.
func (r *DatasetRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM datasets`

	var n int64
	if err := r.db.Reader.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count datasets: %w", err)
	}

	return n, nil
}

// scanDataset maps a row to a Dataset, substituting defaults for NULL or
// malformed columns: row_count 0, size_mb 0.0, sensitivity "Low", status
// "Active", and the current time for last_updated.
func scanDataset(s scanner) (*model.Dataset, error) {
	var (
		dataset     model.Dataset
		name        sql.NullString
		source      sql.NullString
		owner       sql.NullString
		rowCount    sql.NullInt64
		sizeMB      sql.NullFloat64
		sensitivity sql.NullString
		updated     sql.NullString
		status      sql.NullString
	)

	if err := s.Scan(&dataset.ID, &name, &source, &owner, &rowCount, &sizeMB, &sensitivity, &updated, &status); err != nil {
		return nil, err
	}

	dataset.DatasetName = stringOr(name, "")
	dataset.Source = stringOr(source, "")
	dataset.Owner = stringOr(owner, "")
	dataset.Rows = rowCount.Int64
	dataset.SizeMB = sizeMB.Float64
	dataset.Sensitivity = stringOr(sensitivity, model.SensitivityLow)
	dataset.LastUpdated = timeOr(updated, time.Now().UTC())
	dataset.Status = stringOr(status, model.DatasetStatusActive)

	return &dataset, nil
}
