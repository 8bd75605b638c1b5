//go:build !js_eval

package crosswire

// unavailableJSEvaluator stands in for the goja evaluator in builds without
// the js_eval tag so expr settings fail instead of running on another engine.
type unavailableJSEvaluator struct{}

// NewJSEvaluator returns an Evaluator that fails with ErrNoEvaluator unless
// the binary is built with the js_eval tag.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return unavailableJSEvaluator{}
}

func (unavailableJSEvaluator) Evaluate(ctx RuleContext, expr string) (any, error) {
	return nil, wrapEvaluationError("js", expr, ctx.Name, ErrNoEvaluator)
}

func jsEvaluatorAvailable() bool {
	return false
}
