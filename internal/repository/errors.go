package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqCheckViolation      = "23514"
	pqInvalidText         = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// classify wraps a driver error with the matching domain error so callers
// can branch with errors.Is.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqInvalidText:
			// malformed UUID in a lookup cannot match any row
			return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		case pqCheckViolation, pqForeignKeyViolation:
			return &domain.ValidationError{Fields: map[string]string{constraintField(pqErr): pqErr.Message}}
		}
	}
	return fmt.Errorf("%s: %w: %w", what, domain.ErrPersistence, err)
}

func constraintField(pqErr *pq.Error) string {
	if pqErr.Column != "" {
		return pqErr.Column
	}
	if pqErr.Constraint != "" {
		return pqErr.Constraint
	}
	return "input"
}
