package model

import "time"

// Dataset represents metadata about a registered dataset.
type Dataset struct {
	ID          int64
	DatasetName string
	Source      string
	Owner       string
	Rows        int64
	SizeMB      float64
	Sensitivity string
	LastUpdated time.Time // bumped on every update
	Status      string
}
