package repositories

import "errors"

// ErrRecordNotFound is returned (wrapped) when a lookup matches no row.
var ErrRecordNotFound = errors.New("record not found")
