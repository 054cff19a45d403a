package springview

import "errors"

var (
	ErrNotInitialized = errors.New("springview: no model loaded")
	ErrUnknownCommand = errors.New("springview: unknown command")
)
