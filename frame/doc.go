// Package frame defines the domain objects the codec serializes: typed
// N-dimensional arrays, labeled indexes, categoricals, series, column-block
// data frames, time and numeric scalars, and sparse index encodings.
//
// Every type here round-trips through the pack package's tagged-record
// representation except SparseSeries and SparseFrame, which are refused at
// encode time.
package frame
