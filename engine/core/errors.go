package core

import (
	"errors"
	"fmt"
)

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrNoLoader      = errors.New("no loader registered for resource type")
	ErrTextureLoad   = errors.New("texture load failure")
	ErrModelLoad     = errors.New("model load failure")
	ErrMaterialLoad  = errors.New("material preset load failure")
	ErrShutdown      = errors.New("system is shut down")
	ErrUnknown       = errors.New("unknown")
)

// LoadErrorKind tells which loader produced a LoadError.
type LoadErrorKind int

const (
	TextureLoadFailure LoadErrorKind = iota
	ModelLoadFailure
	MaterialLoadFailure
)

func (k LoadErrorKind) String() string {
	switch k {
	case TextureLoadFailure:
		return "TextureLoadFailure"
	case ModelLoadFailure:
		return "ModelLoadFailure"
	case MaterialLoadFailure:
		return "MaterialLoadFailure"
	default:
		return "UnknownLoadFailure"
	}
}

// LoadError reports a failed asset load together with the path that triggered it.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: '%s': %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() []error {
	kind := ErrTextureLoad
	switch e.Kind {
	case ModelLoadFailure:
		kind = ErrModelLoad
	case MaterialLoadFailure:
		kind = ErrMaterialLoad
	}
	return []error{kind, e.Err}
}
