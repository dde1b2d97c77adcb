package engine

// WithRelaxFunc replaces the relaxation solver
func WithRelaxFunc(fn relaxFunc) Option {
	return func(e *Engine) {
		e.relaxFn = fn
	}
}
