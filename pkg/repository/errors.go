package repository

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

var (
	// ErrNotFound is the domain not-found sentinel so callers can match either.
	ErrNotFound      = types.ErrNotFound
	ErrAlreadyExists = goerr.New("already exists")
	ErrInvalidInput  = goerr.New("invalid input")
)
