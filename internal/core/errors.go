package core

import "errors"

// Sentinel errors for engine construction and coordinate resolution.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("core: grid must have at least one row and one column")
	// ErrBadInitialLength indicates an initial-state array whose length does not match the grid area.
	ErrBadInitialLength = errors.New("core: initial state length must equal rows*cols")
	// ErrUnknownOrdinal indicates an initial-state value absent from the state model.
	ErrUnknownOrdinal = errors.New("core: ordinal not present in state model")
	// ErrDuplicateState indicates a state model definition that repeats a state, ordinal or key.
	ErrDuplicateState = errors.New("core: duplicate state definition")
	// ErrMissingParam indicates a required named parameter was not supplied.
	ErrMissingParam = errors.New("core: missing required parameter")
	// ErrParamRange indicates a named parameter outside its documented range.
	ErrParamRange = errors.New("core: parameter out of range")
	// ErrUnknownBoundary indicates an unrecognized boundary strategy tag.
	ErrUnknownBoundary = errors.New("core: unknown boundary strategy tag")
	// ErrUnknownNeighborhood indicates an unrecognized neighborhood strategy tag.
	ErrUnknownNeighborhood = errors.New("core: unknown neighborhood strategy tag")
	// ErrOutOfBounds indicates a coordinate the active boundary strategy declares invalid.
	ErrOutOfBounds = errors.New("core: coordinate out of bounds")
	// ErrCellOccupied indicates an agent move or spawn onto an occupied cell.
	ErrCellOccupied = errors.New("core: cell already holds an agent")
	// ErrNoAgent indicates an agent operation on a cell without one.
	ErrNoAgent = errors.New("core: no agent at cell")
)
