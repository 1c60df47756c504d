package services

import "errors"

// ErrEmptyDataset is returned by LoadBranchFiles when an entire batch —
// zero files, all schema-invalid files, or all rows dropped — yields no
// valid transactions. File- and row-level faults are absorbed; only this
// dataset-level absence of data is surfaced.
var ErrEmptyDataset = errors.New("no valid sales data in batch")
