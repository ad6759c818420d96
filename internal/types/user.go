// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidYearOfBirth = errors.New("year_of_birth must be a number")

// User is a platform account together with its profile.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	DateJoined   time.Time
	// Site is the domain the user signed up on, empty for global users.
	Site    string
	Profile Profile
}

// Profile holds the user's profile columns, Meta carries the extended
// profile (extra registration fields).
type Profile struct {
	Name             string
	Gender           string
	Country          string
	LevelOfEducation string
	YearOfBirth      *int
	Bio              string
	Goals            string
	MailingAddress   string
	City             string
	PhoneNumber      string
	Meta             map[string]string
}

// Set assigns a profile field by its API name, unknown names go to Meta.
func (p *Profile) Set(field, value string) error {
	switch field {
	case "name", "fullname":
		p.Name = value
	case "gender":
		p.Gender = value
	case "country":
		p.Country = value
	case "level_of_education":
		p.LevelOfEducation = value
	case "bio":
		p.Bio = value
	case "goals":
		p.Goals = value
	case "mailing_address":
		p.MailingAddress = value
	case "city":
		p.City = value
	case "phone_number":
		p.PhoneNumber = value
	case "year_of_birth":
		if strings.TrimSpace(value) == "" {
			p.YearOfBirth = nil
			return nil
		}
		y, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return ErrInvalidYearOfBirth
		}
		p.YearOfBirth = &y
	default:
		if p.Meta == nil {
			p.Meta = make(map[string]string)
		}
		p.Meta[field] = value
	}
	return nil
}

// UserQuery identifies one user, username takes precedence over email.
type UserQuery struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Site     string `json:"site,omitempty"`
}

// IsSingle reports whether the query names a user.
func (q UserQuery) IsSingle() bool {
	return q.Username != "" || q.Email != ""
}

// UserCreate carries a validated registration.
type UserCreate struct {
	Username     string
	Email        string
	Password     string
	FullName     string
	ActivateUser bool
	SkipPassword bool
	Site         string
	// Extra holds extra registration fields keyed by name
	Extra map[string]string
}

// UserUpdate carries the safe fields of a partial update, nil means unset.
type UserUpdate struct {
	IsActive *bool
	Password *string
	// Fields holds profile and extended profile values keyed by API name
	Fields map[string]string
}

type ExtendedProfileField struct {
	FieldName  string `json:"field_name"`
	FieldValue string `json:"field_value"`
}

// UserDetail is the serialized form of a user.
type UserDetail struct {
	Username         string                 `json:"username"`
	Email            string                 `json:"email"`
	Name             string                 `json:"name"`
	IsActive         bool                   `json:"is_active"`
	IsStaff          bool                   `json:"is_staff"`
	DateJoined       time.Time              `json:"date_joined"`
	Gender           string                 `json:"gender"`
	Country          string                 `json:"country"`
	LevelOfEducation string                 `json:"level_of_education"`
	YearOfBirth      *int                   `json:"year_of_birth"`
	Bio              string                 `json:"bio"`
	Goals            string                 `json:"goals"`
	MailingAddress   string                 `json:"mailing_address"`
	City             string                 `json:"city"`
	PhoneNumber      string                 `json:"phone_number"`
	ExtendedProfile  []ExtendedProfileField `json:"extended_profile"`
}

// Detail serializes the user, extended profile entries are sorted by name.
func (u *User) Detail() *UserDetail {
	d := &UserDetail{
		Username:         u.Username,
		Email:            u.Email,
		Name:             u.Profile.Name,
		IsActive:         u.IsActive,
		IsStaff:          u.IsStaff,
		DateJoined:       u.DateJoined,
		Gender:           u.Profile.Gender,
		Country:          u.Profile.Country,
		LevelOfEducation: u.Profile.LevelOfEducation,
		YearOfBirth:      u.Profile.YearOfBirth,
		Bio:              u.Profile.Bio,
		Goals:            u.Profile.Goals,
		MailingAddress:   u.Profile.MailingAddress,
		City:             u.Profile.City,
		PhoneNumber:      u.Profile.PhoneNumber,
		ExtendedProfile:  make([]ExtendedProfileField, 0, len(u.Profile.Meta)),
	}

	for k, v := range u.Profile.Meta {
		d.ExtendedProfile = append(d.ExtendedProfile, ExtendedProfileField{FieldName: k, FieldValue: v})
	}
	sort.Slice(d.ExtendedProfile, func(i, j int) bool {
		return d.ExtendedProfile[i].FieldName < d.ExtendedProfile[j].FieldName
	})

	return d
}
