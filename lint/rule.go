package lint

// DefaultRule provides default implementations for optional Rule methods.
// Embed it in a rule to get Enabled() returning true and Severity()
// returning ERROR.
//
//	type MyRule struct {
//	    lint.DefaultRule
//	}
//
//	func (r *MyRule) Name() string { return "my_rule" }
//	func (r *MyRule) Description() string { return "Checks something" }
//	func (r *MyRule) Link() string { return "" }
//	func (r *MyRule) Check(runner lint.Runner) error { ... }
//
// Override Severity to pick a different default:
//
//	func (r *MyRule) Severity() lint.Severity { return lint.WARNING }
type DefaultRule struct{}

// Enabled returns true; rules are enabled by default.
func (r DefaultRule) Enabled() bool {
	return true
}

// Severity returns ERROR.
func (r DefaultRule) Severity() Severity {
	return ERROR
}

// Link returns no documentation link.
func (r DefaultRule) Link() string {
	return ""
}
