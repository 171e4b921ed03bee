package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrClassNotFound     = errors.New("class not found")
	ErrIngestRunNotFound = errors.New("ingest run not found")
	ErrDuplicateRecord   = errors.New("record already exists")
)
