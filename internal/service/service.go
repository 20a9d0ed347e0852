// Package service implements the platform's business operations on top of the
// repositories. Every operation takes the caller's user ID explicitly and
// reports failures as *models.AppError.
package service

import (
	"errors"
	"time"

	"nashr/internal/models"
	"nashr/internal/repository"
)

// ErrLoginRequired is returned by every operation that needs a caller.
var ErrLoginRequired = models.NewUnauthorizedError("")

// notFound turns a missing row into a NOT_FOUND AppError and leaves other errors alone.
func notFound(err error, message string) error {
	if repository.IsNotFound(err) {
		return models.NewNotFoundError(message)
	}
	return err
}

// internal wraps err unless it already is an AppError.
func internal(message string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewInternalError(message, err)
}

// pageOffset converts a 1-based page into a row offset.
func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// Clock returns the current time; tests replace it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}
