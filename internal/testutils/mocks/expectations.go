// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/ancestry-builder/internal/entities/ancestry"
	buildrepo "github.com/KirkDiggler/ancestry-builder/internal/repositories/build"
	buildmock "github.com/KirkDiggler/ancestry-builder/internal/repositories/build/mock"
)

// ExpectBuildGet sets up a repository read returning a copy of b, or err when set
func ExpectBuildGet(
	ctx context.Context, mockRepo *buildmock.MockRepository,
	buildID string, b *ancestry.Build, err error,
) *gomock.Call {
	call := mockRepo.EXPECT().Get(ctx, buildrepo.GetInput{ID: buildID})
	if err != nil {
		return call.Return(nil, err)
	}
	stored := *b
	return call.Return(&buildrepo.GetOutput{Build: &stored}, nil)
}

// ExpectBuildCreate expects one create and records the stored build into captured
func ExpectBuildCreate(ctx context.Context, mockRepo *buildmock.MockRepository, captured **ancestry.Build) *gomock.Call {
	return mockRepo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input buildrepo.CreateInput) (*buildrepo.CreateOutput, error) {
			if captured != nil {
				*captured = input.Build
			}
			return &buildrepo.CreateOutput{Build: input.Build}, nil
		})
}

// ExpectBuildUpdate expects one update and records the stored build into captured
func ExpectBuildUpdate(ctx context.Context, mockRepo *buildmock.MockRepository, captured **ancestry.Build) *gomock.Call {
	return mockRepo.EXPECT().
		Update(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input buildrepo.UpdateInput) (*buildrepo.UpdateOutput, error) {
			if captured != nil {
				*captured = input.Build
			}
			return &buildrepo.UpdateOutput{Build: input.Build}, nil
		})
}
