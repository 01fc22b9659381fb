package core

import "fmt"

// Params is the named numeric-parameter table supplied by the configuration
// collaborator at construction time. Accessors validate presence and the
// documented range; probabilities use the Unit variants.
type Params map[string]float64

// Float returns a required parameter.
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("core: parameter %q: %w", key, ErrMissingParam)
	}
	return v, nil
}

// FloatDefault returns the parameter or def when absent.
func (p Params) FloatDefault(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Int returns a required parameter truncated to an integer.
func (p Params) Int(key string) (int, error) {
	v, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// IntDefault returns the parameter truncated to an integer, or def when
// absent.
func (p Params) IntDefault(key string, def int) int {
	if v, ok := p[key]; ok {
		return int(v)
	}
	return def
}

// Unit returns a required parameter validated to lie in [0,1].
func (p Params) Unit(key string) (float64, error) {
	v, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("core: parameter %q=%v not in [0,1]: %w", key, v, ErrParamRange)
	}
	return v, nil
}

// UnitDefault returns def when the parameter is absent, and otherwise
// validates it to lie in [0,1].
func (p Params) UnitDefault(key string, def float64) (float64, error) {
	if _, ok := p[key]; !ok {
		return def, nil
	}
	return p.Unit(key)
}

// Positive returns a required parameter validated to be strictly positive.
func (p Params) Positive(key string) (float64, error) {
	v, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("core: parameter %q=%v must be > 0: %w", key, v, ErrParamRange)
	}
	return v, nil
}
