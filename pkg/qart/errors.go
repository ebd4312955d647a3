package qart

import "errors"

var (
	ErrNotFound      = errors.New("object not found")
	ErrEmptyFilename = errors.New("blob filename is empty")
)
