package storage

import (
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
)

// StoreError wraps any failure of a Store operation
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code returns the PostgreSQL SQLSTATE of the underlying error or an empty string
// when the failure did not come from the server (e.g. connection refused)
func (e *StoreError) Code() string {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// SchemaMissing reports whether the chat_messages table (or a column of it) is absent
func (e *StoreError) SchemaMissing() bool {
	switch e.Code() {
	case pgerrcode.UndefinedTable, pgerrcode.UndefinedColumn:
		return true
	}
	return false
}

// IsStoreError reports whether err originates from a Store operation
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
