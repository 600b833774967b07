package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/idfront/idfront/pkg/logger"
)

// UpdatePersonalInformation updates the profile fields of the
// authenticated user. All fields are required; any blank one reports
// OutcomeInvalidPersonalInfo and nothing is written.
func (s *Service) UpdatePersonalInformation(ctx context.Context, state SessionState, info PersonalInformation) (SessionState, Result, error) {
	if !state.IsAuthenticated() {
		return state, Result{}, ErrUnauthenticated
	}

	info.GivenName = strings.TrimSpace(info.GivenName)
	info.FamilyName = strings.TrimSpace(info.FamilyName)
	info.PhoneNumber = strings.TrimSpace(info.PhoneNumber)
	info.Job = strings.TrimSpace(info.Job)

	if info.GivenName == "" || info.FamilyName == "" || info.PhoneNumber == "" || info.Job == "" {
		return state, outcome(OutcomeInvalidPersonalInfo), nil
	}

	if _, err := s.users.UpdateFields(ctx, state.User.ID, info); err != nil {
		return state, Result{}, fmt.Errorf("failed to update personal information: %w", err)
	}

	s.logger.Info("personal information updated",
		logger.UserID(state.User.ID.String()),
		logger.Action("update_personal_information"),
		logger.Component("flow"),
	)

	return state, outcome(OutcomePersonalInfoUpdated), nil
}
