package core

import "errors"

var (
	ErrNotFound         = errors.New("richtext: not found")
	ErrTemplateNotFound = errors.New("richtext: template not found")
	ErrInvalidRoute     = errors.New("richtext: invalid route")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
