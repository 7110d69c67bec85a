package repository

import "errors"

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("record with this id already exists")
)
