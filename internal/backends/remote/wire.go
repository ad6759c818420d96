// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package remote

import (
	"time"

	"github.com/canonical/lms-bridge/internal/types"
)

type userPayload struct {
	ID               int64             `json:"id"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	IsActive         bool              `json:"is_active"`
	IsStaff          bool              `json:"is_staff"`
	DateJoined       time.Time         `json:"date_joined"`
	Site             string            `json:"site"`
	Name             string            `json:"name"`
	Gender           string            `json:"gender"`
	Country          string            `json:"country"`
	LevelOfEducation string            `json:"level_of_education"`
	YearOfBirth      *int              `json:"year_of_birth"`
	Bio              string            `json:"bio"`
	Goals            string            `json:"goals"`
	MailingAddress   string            `json:"mailing_address"`
	City             string            `json:"city"`
	PhoneNumber      string            `json:"phone_number"`
	ExtendedProfile  map[string]string `json:"extended_profile"`
}

func (p *userPayload) user() *types.User {
	return &types.User{
		ID:         p.ID,
		Username:   p.Username,
		Email:      p.Email,
		IsActive:   p.IsActive,
		IsStaff:    p.IsStaff,
		DateJoined: p.DateJoined,
		Site:       p.Site,
		Profile: types.Profile{
			Name:             p.Name,
			Gender:           p.Gender,
			Country:          p.Country,
			LevelOfEducation: p.LevelOfEducation,
			YearOfBirth:      p.YearOfBirth,
			Bio:              p.Bio,
			Goals:            p.Goals,
			MailingAddress:   p.MailingAddress,
			City:             p.City,
			PhoneNumber:      p.PhoneNumber,
			Meta:             p.ExtendedProfile,
		},
	}
}

type createUserRequest struct {
	Username     string            `json:"username"`
	Email        string            `json:"email"`
	Password     string            `json:"password,omitempty"`
	Name         string            `json:"name"`
	ActivateUser bool              `json:"activate_user"`
	SkipPassword bool              `json:"skip_password"`
	Site         string            `json:"site,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

type createUserResponse struct {
	User     userPayload `json:"user"`
	Messages []string    `json:"messages"`
}

type updateUserRequest struct {
	IsActive *bool             `json:"is_active,omitempty"`
	Password *string           `json:"password,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

type createdEnrollmentPayload struct {
	Enrollment types.Enrollment `json:"enrollment"`
	Messages   []string         `json:"messages"`
}

type createEnrollmentResponse struct {
	Enrollments []createdEnrollmentPayload `json:"enrollments"`
}

type updateEnrollmentRequest struct {
	Mode                 string                      `json:"mode,omitempty"`
	IsActive             *types.FlexBool             `json:"is_active,omitempty"`
	Force                *types.FlexBool             `json:"force,omitempty"`
	EnrollmentAttributes []types.EnrollmentAttribute `json:"enrollment_attributes,omitempty"`
}

type createGroupRequest struct {
	Name string          `json:"name"`
	Type types.GroupType `json:"type"`
}
