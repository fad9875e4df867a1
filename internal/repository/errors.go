package repository

import "errors"

var (
	// レコードが見つからない
	ErrNotFound = errors.New("not found")

	// ユニーク制約違反
	ErrConflict = errors.New("conflict")
)
