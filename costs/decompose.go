package costs

import (
	"fmt"

	"github.com/katalvlaran/otcost/matrix"
	"github.com/katalvlaran/otcost/regularizers"
	"github.com/katalvlaran/otcost/tree"
)

// Kinds recorded in tree.Aux by the costs of this package.
const (
	KindPNormP          = "pnorm_p"
	KindSqPNorm         = "sq_pnorm"
	KindEuclideanP      = "euclidean_p"
	KindEuclidean       = "euclidean"
	KindSqEuclidean     = "sq_euclidean"
	KindCosine          = "cosine"
	KindArccos          = "arccos"
	KindDotp            = "dotp"
	KindRegTI           = "reg_ti"
	KindBures           = "bures"
	KindUnbalancedBures = "unbalanced_bures"
	KindSoftDTW         = "soft_dtw"
)

// Static keys.
const (
	keyP          = "p"
	keyRidge      = "ridge"
	keyN          = "n"
	keyDimension  = "dimension"
	keySigma      = "sigma"
	keyGamma      = "gamma"
	keyDebiased   = "debiased"
	keyFeatureDim = "feature_dim"
)

// Unflatten rebuilds a cost from the output of its Flatten method. Nested
// ground costs and regularizers are rebuilt recursively.
//
// Errors: tree.ErrArity when children do not match aux, tree.ErrUnknownKind.
// Constructors panic on nonsensical static values, as when called directly.
func Unflatten(aux tree.Aux, children []float64) (Cost, error) {
	own, nested, err := tree.Split(aux, children)
	if err != nil {
		return nil, costErrorf("Unflatten", err)
	}
	s := aux.Static
	switch aux.Kind {
	case KindPNormP:
		return NewPNormP(tree.Float(s, keyP, 2)), nil
	case KindSqPNorm:
		return NewSqPNorm(tree.Float(s, keyP, 2)), nil
	case KindEuclideanP:
		return NewEuclideanP(tree.Float(s, keyP, 2)), nil
	case KindEuclidean:
		return Euclidean{}, nil
	case KindSqEuclidean:
		return SqEuclidean{}, nil
	case KindDotp:
		return Dotp{}, nil
	case KindCosine:
		return NewCosine(tree.Float(s, keyRidge, DefaultRidge)), nil
	case KindArccos:
		return NewArccos(tree.Int(s, keyN, 0), tree.Float(s, keyRidge, DefaultRidge)), nil
	case KindBures, KindUnbalancedBures:
		return unflattenGaussian(aux.Kind, s)
	case KindRegTI:
		if aux.Arity != 2 || len(aux.Nested) != 1 {
			return nil, fmt.Errorf("Unflatten(%s): %w", aux.Kind, tree.ErrArity)
		}
		reg, err := regularizers.Unflatten(aux.Nested[0], nested[0])
		if err != nil {
			return nil, costErrorf("Unflatten", err)
		}

		return NewRegTICost(reg, own[0], own[1]), nil
	case KindSoftDTW:
		if aux.Arity != 1 || len(aux.Nested) != 1 {
			return nil, fmt.Errorf("Unflatten(%s): %w", aux.Kind, tree.ErrArity)
		}
		ground, err := Unflatten(aux.Nested[0], nested[0])
		if err != nil {
			return nil, err
		}

		return NewSoftDTW(own[0],
			WithGroundCost(ground),
			WithDebiased(tree.Bool(s, keyDebiased, false)),
			WithFeatureDim(tree.Int(s, keyFeatureDim, DefaultFeatureDim)),
		), nil
	}

	return nil, fmt.Errorf("Unflatten(%q): %w", aux.Kind, tree.ErrUnknownKind)
}

// unflattenGaussian rebuilds a Bures or UnbalancedBures cost, rejecting static
// values the constructors would panic on.
func unflattenGaussian(kind string, s map[string]any) (Cost, error) {
	cfg := matrix.SqrtmFromStatic(s)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Unflatten(%s): %w", kind, err)
	}
	dim := tree.Int(s, keyDimension, 1)
	if dim < 1 {
		return nil, fmt.Errorf("Unflatten(%s): dimension %d: %w", kind, dim, ErrDimensionMismatch)
	}
	if kind == KindBures {
		return NewBures(dim, matrix.WithConfig(cfg)), nil
	}
	sigma := tree.Float(s, keySigma, DefaultUnbalancedSigma)
	gamma := tree.Float(s, keyGamma, DefaultUnbalancedGamma)
	if !positiveFinite(sigma) || !positiveFinite(gamma) {
		return nil, fmt.Errorf("Unflatten(%s): sigma %g, gamma %g: %w", kind, sigma, gamma, ErrInvalidParameter)
	}

	return NewUnbalancedBures(dim, sigma, gamma, matrix.WithConfig(cfg)), nil
}
