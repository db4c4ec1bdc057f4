package txsystem

import (
	"github.com/alphabill-org/alphabill-escrow/state"
)

type (
	Options struct {
		state *state.State
	}

	Option func(*Options)
)

func DefaultOptions() *Options {
	return &Options{
		state: state.NewEmptyState(),
	}
}

func WithState(s *state.State) Option {
	return func(g *Options) {
		g.state = s
	}
}
