// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import "net/http"

const (
	READ_RELATION   = "can_read"
	WRITE_RELATION  = "can_write"
	MEMBER_RELATION = "member"
	WILDCARD        = "*"
)

// Resources guarded by the permission model, one api object each.
const (
	ResourceUsers       = "users"
	ResourceEnrollments = "enrollments"
	ResourceGroups      = "groups"
	ResourceSocialAuth  = "user-social-auth"
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func APITuple(resource string) string {
	return "api:" + resource
}

func GroupTuple(groupId string) string {
	return "group:" + groupId
}

func GroupMemberTuple(groupId string) string {
	return GroupTuple(groupId) + "#" + MEMBER_RELATION
}

// RelationFor maps an HTTP method to the relation it needs, safe methods
// read and everything else writes.
func RelationFor(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return READ_RELATION
	default:
		return WRITE_RELATION
	}
}
