package domain

// LifecycleHooks defines optional callbacks for engine observability. Hooks
// run synchronously inside the step path; keep them cheap. Nil members are
// skipped.
type LifecycleHooks struct {
	OnStep      func(StepResult)
	OnCollapse  func(CollapseResult)
	OnGlyph     func(Glyph)
	OnConverged func(ConvergenceReport)
}

// MergeHooks chains multiple hook sets; each callback fans out in argument
// order.
func MergeHooks(sets ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnStep: func(res StepResult) {
			for _, s := range sets {
				if s.OnStep != nil {
					s.OnStep(res)
				}
			}
		},
		OnCollapse: func(res CollapseResult) {
			for _, s := range sets {
				if s.OnCollapse != nil {
					s.OnCollapse(res)
				}
			}
		},
		OnGlyph: func(g Glyph) {
			for _, s := range sets {
				if s.OnGlyph != nil {
					s.OnGlyph(g)
				}
			}
		},
		OnConverged: func(rep ConvergenceReport) {
			for _, s := range sets {
				if s.OnConverged != nil {
					s.OnConverged(rep)
				}
			}
		},
	}
}
