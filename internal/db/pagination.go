// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package db

const defaultPageSize uint64 = 100

// Offset returns the row offset of a 1-indexed page.
func Offset(page int64, size uint64) uint64 {
	if page < 1 {
		page = 1
	}
	return uint64(page-1) * size
}

// PageSize falls back to the default for non positive sizes.
func PageSize(size int64) uint64 {
	if size <= 0 {
		return defaultPageSize
	}
	return uint64(size)
}
