package entities

import "errors"

var (
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrQuizExists      = errors.New("quiz already exists")
	ErrVersionConflict = errors.New("quiz was modified concurrently")
)
