package algorithms

import (
	"fmt"

	"github.com/auit-project/layoutsolver/pkg/multiobjective/framework"
)

// Names lists the registered solvers.
var Names = []string{NSGAIIName, NSGAIIIName}

// Option customizes a solver built by New.
type Option func(*options)

type options struct {
	observer framework.Observer
}

// WithObserver reports every generation to observer.
func WithObserver(observer framework.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// New returns the solver registered under name. refDirs is only used by
// reference-direction based solvers.
func New(name string, popSize int, refDirs [][]float64, opts ...Option) (framework.Solver, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	switch name {
	case NSGAIIName:
		s := NewNSGAII(popSize)
		s.Observer = o.observer
		return s, nil
	case NSGAIIIName:
		if len(refDirs) == 0 {
			return nil, fmt.Errorf("%s needs reference directions", name)
		}
		s := NewNSGAIII(popSize, refDirs)
		s.Observer = o.observer
		return s, nil
	}
	return nil, fmt.Errorf("unknown algorithm %q", name)
}
