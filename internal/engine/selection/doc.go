// Package selection holds the trait selection rules: eligibility checks, the
// pure state transition function, derived views such as points and warnings,
// and the Engine session wrapper.
package selection
