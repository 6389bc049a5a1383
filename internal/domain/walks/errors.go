package walks

import "errors"

// Errores de dominio. Los services los envuelven con un mensaje accionable
// (fmt.Errorf("%w: ...")) y los handlers los mapean con errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("not authorized")
	ErrState      = errors.New("invalid state")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
	ErrNotFound   = errors.New("not found")
)

// ErrDuplicate lo devuelven los adapters cuando salta una restricción de unicidad.
var ErrDuplicate = errors.New("duplicate")
