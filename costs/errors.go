package costs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented indicates that a cost does not provide an optional
	// capability (barycenter, twist operator, Legendre transform).
	ErrNotImplemented = errors.New("costs: operation not implemented")

	// ErrDimensionMismatch indicates ragged point sets or points whose length
	// does not match the cost's layout.
	ErrDimensionMismatch = errors.New("costs: dimension mismatch")

	// ErrEmptyInput indicates an empty point set or weight vector.
	ErrEmptyInput = errors.New("costs: empty input")

	// ErrInvalidWeights indicates weights that cannot be normalized to the simplex.
	ErrInvalidWeights = errors.New("costs: weights must be non-negative with a positive sum")

	// ErrInvalidParameter indicates a rebuilt static parameter outside its domain.
	ErrInvalidParameter = errors.New("costs: invalid parameter")
)

// notImplemented names the missing capability, e.g. "barycenter: costs: operation not implemented".
func notImplemented(capability string) error {
	return fmt.Errorf("%s: %w", capability, ErrNotImplemented)
}

func costErrorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// Panic messages for nonsensical constructor arguments.
const (
	panicRidgeInvalid     = "costs: ridge must be finite, non-negative"
	panicOrderInvalid     = "costs: norm order p must be >= 1"
	panicArccosInvalid    = "costs: NewArccos: order n must be >= 0"
	panicDimensionInvalid = "costs: dimension must be >= 1"
	panicGammaInvalid     = "costs: gamma must be finite, non-negative"
	panicSigmaInvalid     = "costs: sigma and gamma must be finite, positive"
	panicFeatureDim       = "costs: WithFeatureDim: feature dimension must be >= 1"
	panicToleranceInvalid = "costs: WithTolerance: tolerance must be finite, non-negative"
)
