package domain

import "errors"

var (
	ErrEmptyText   = errors.New("empty text")
	ErrInvalidPane = errors.New("invalid pane")
)
