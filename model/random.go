package model

import (
	"math/rand/v2"

	"github.com/pkg/errors"
)

// DefaultAliveProbability is the chance a cell starts alive in a random grid
const DefaultAliveProbability = 0.2

// NewRNG creates a deterministic random source for the given seed
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// RandomInitial includes every domain cell independently with probability aliveProbability
func RandomInitial(d Domain, aliveProbability float64, rng *rand.Rand) (CellSet, error) {
	if aliveProbability < 0 || aliveProbability > 1 {
		return nil, errors.Errorf("[RandomInitial] probability must be within [0,1], got %v", aliveProbability)
	}
	if rng == nil {
		return nil, errors.New("[RandomInitial] nil random source")
	}

	out := make(CellSet)
	for _, c := range d.Coordinates() {
		if rng.Float64() < aliveProbability {
			out.Add(c)
		}
	}
	return out, nil
}
