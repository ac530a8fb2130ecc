package errors_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/egg-brawl/internal/errors"
)

type ValidationTestSuite struct {
	suite.Suite
}

func TestValidationSuite(t *testing.T) {
	suite.Run(t, new(ValidationTestSuite))
}

func (s *ValidationTestSuite) TestBuilderCollectsFields() {
	err := errors.NewValidationBuilder().
		RequiredField("Engine").
		Fieldf("AutoStartAt", "must be 0 or at least %d", 2).
		Field("AutoStartAt", "is negative").
		Build()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	// fields are listed in name order
	s.Equal("INVALID_ARGUMENT: validation failed: AutoStartAt: must be 0 or at least 2, is negative; Engine: is required",
		err.Error())

	var e *errors.Error
	s.Require().True(errors.As(err, &e))
	fields, ok := e.Meta["validation_errors"].(map[string][]string)
	s.Require().True(ok)
	s.Equal([]string{"is required"}, fields["Engine"])
	s.Len(fields["AutoStartAt"], 2)
}

func (s *ValidationTestSuite) TestBuilderWithoutProblems() {
	s.NoError(errors.NewValidationBuilder().Build())
}

func (s *ValidationTestSuite) TestValidateRequired() {
	testCases := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{"valid value", "p1", false},
		{"empty string", "", true},
		{"whitespace only", "   ", true},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			vb := errors.NewValidationBuilder()
			errors.ValidateRequired("participant_id", tc.value, vb)
			if tc.shouldErr {
				s.Error(vb.Build())
			} else {
				s.NoError(vb.Build())
			}
		})
	}
}
