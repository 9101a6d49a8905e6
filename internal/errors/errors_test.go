package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/ancestry-builder/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "build not found",
			expected: "NOT_FOUND: build not found",
		},
		{
			name:     "data loss error",
			code:     errors.CodeDataLoss,
			message:  "catalog is malformed",
			expected: "DATA_LOSS: catalog is malformed",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("trait not found").
		WithMeta("trait_id", "darkvision").
		WithMetaMap(map[string]any{"build_id": "build_1"})

	s.Assert().Equal("darkvision", err.Meta["trait_id"])
	s.Assert().Equal("build_1", err.Meta["build_id"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to save build")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to save build", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
	s.Assert().Equal("INTERNAL: failed to save build: connection refused", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.NotFound("record not found").WithMeta("build_id", "b1")
	wrapped := errors.Wrap(baseErr, "failed to load build")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("b1", wrapped.Meta["build_id"])
	s.Assert().True(errors.IsNotFound(wrapped))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("unexpected end of JSON input")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeDataLoss, "catalog is malformed")

	s.Assert().Equal(errors.CodeDataLoss, wrapped.Code)
	s.Assert().True(errors.IsDataLoss(wrapped))
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestErrorIs() {
	s.Assert().True(errors.NotFound("a").Is(errors.NotFound("b")))
	s.Assert().False(errors.NotFound("a").Is(errors.InvalidArgument("a")))
}

func (s *ErrorsTestSuite) TestGetters() {
	err := errors.FailedPrecondition("catalog not loaded").WithMeta("path", "data/traits.yaml")
	wrapped := errors.Wrap(err, "cannot start build")
	stdErr := fmt.Errorf("plain")

	s.Assert().Equal(errors.CodeFailedPrecondition, errors.GetCode(wrapped))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(stdErr))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))

	s.Assert().Equal("data/traits.yaml", errors.GetMeta(wrapped)["path"])
	s.Assert().Nil(errors.GetMeta(stdErr))
}

func (s *ErrorsTestSuite) TestExitCode() {
	testCases := []struct {
		code     errors.Code
		expected int
	}{
		{errors.CodeOK, 0},
		{errors.CodeInvalidArgument, 2},
		{errors.CodeNotFound, 3},
		{errors.CodeDataLoss, 4},
		{errors.CodeUnavailable, 5},
		{errors.CodeInternal, 1},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.ExitCode())
		})
	}
}
