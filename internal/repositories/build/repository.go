// Package build defines persistence for build sessions
package build

//go:generate mockgen -destination=mock/mock_repository.go -package=buildmock github.com/KirkDiggler/ancestry-builder/internal/repositories/build Repository

import (
	"context"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
)

// Repository stores build sessions keyed by id and indexed by owner
type Repository interface {
	// Create stores a new build
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the id is taken
	// Returns errors.Internal for storage failures
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a build by id
	// Returns errors.InvalidArgument for an empty id
	// Returns errors.NotFound if the build doesn't exist or has expired
	// Returns errors.DataLoss if the stored record cannot be decoded
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing build and refreshes its TTL
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.NotFound if the build doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a build and its owner index entry
	// Returns errors.InvalidArgument for an empty id
	// Returns errors.NotFound if the build doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListByOwner returns an owner's live builds, oldest first. Index entries
	// whose build has expired are dropped.
	// Returns errors.InvalidArgument for an empty owner id
	ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListByOwnerOutput, error)
}

// CreateInput defines the input for creating a build
type CreateInput struct {
	Build *ancestry.Build
}

// CreateOutput defines the output for creating a build
type CreateOutput struct {
	Build *ancestry.Build
}

// GetInput defines the input for getting a build
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a build
type GetOutput struct {
	Build *ancestry.Build
}

// UpdateInput defines the input for updating a build
type UpdateInput struct {
	Build *ancestry.Build
}

// UpdateOutput defines the output for updating a build
type UpdateOutput struct {
	Build *ancestry.Build
}

// DeleteInput defines the input for deleting a build
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a build
type DeleteOutput struct{}

// ListByOwnerInput defines the input for listing an owner's builds
type ListByOwnerInput struct {
	OwnerID string
}

// ListByOwnerOutput defines the output for listing an owner's builds
type ListByOwnerOutput struct {
	Builds []*ancestry.Build
}
