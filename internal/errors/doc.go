// Package errors provides the structured error type used across the ancestry builder.
//
// Errors carry a Code, a user-facing Message, an optional Cause and free-form
// metadata:
//
//	err := errors.NotFound("trait not found").
//	    WithMeta("trait_id", traitID)
//
// Wrapping keeps the original code:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load build")
//	}
//
// A malformed catalog is reported as DataLoss so that callers can treat it as
// "no catalog available" rather than an empty one:
//
//	if errors.IsDataLoss(err) {
//	    // stop the session
//	}
//
// Rule violations inside the selection engine are NOT errors. They are returned
// as eligibility values so the caller can render them inline. Only catalog
// loading, persistence and argument validation produce errors.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("ownerID", input.OwnerID, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
