// Package mapper holds generic helpers for converting persistence rows into
// domain entities.
package mapper

import "fmt"

// MapSlicePtr applies mapFunc to every non-nil item.
func MapSlicePtr[T any, R any](items []*T, mapFunc func(*T) *R) []*R {
	if items == nil {
		return nil
	}

	result := make([]*R, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		if mapped := mapFunc(item); mapped != nil {
			result = append(result, mapped)
		}
	}
	return result
}

// MapSlicePtrWithID maps rows that may fail to rehydrate. The first failure
// aborts the whole slice and names the offending row.
func MapSlicePtrWithID[T any, R any, ID any](
	items []*T,
	mapFunc func(*T) (*R, error),
	getID func(*T) ID,
) ([]*R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]*R, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, fmt.Errorf("failed to map item ID %v: %w", getID(item), err)
		}
		if mapped != nil {
			result = append(result, mapped)
		}
	}
	return result, nil
}

// MapRowsWithID is MapSlicePtrWithID for value slices as returned by
// gorm Find into []Model.
func MapRowsWithID[T any, R any, ID any](
	rows []T,
	mapFunc func(*T) (*R, error),
	getID func(*T) ID,
) ([]*R, error) {
	if rows == nil {
		return nil, nil
	}

	ptrs := make([]*T, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	return MapSlicePtrWithID(ptrs, mapFunc, getID)
}
