// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/canonical/lms-bridge/internal/salesforce"
)

const allTeamMembersQuery = "SELECT fHCM2__Email__c, Department2__c, fHCM2__Team__c FROM fHCM2__Team_Member__c"

// TeamMemberRecord is a Salesforce team member row.
type TeamMemberRecord struct {
	Email      string `mapstructure:"fHCM2__Email__c"`
	Department string `mapstructure:"Department2__c"`
	Team       string `mapstructure:"fHCM2__Team__c"`
}

// SalesforceDriver maps team member departments and teams to groups.
type SalesforceDriver struct {
	client salesforce.SalesforceInterface
}

func (d *SalesforceDriver) Prefix() string {
	return "salesforce"
}

// FetchAllUserGroups returns at most two mappings per member, one for the
// department and one for the team. Emails are lowercased and duplicate
// pairs are dropped.
func (d *SalesforceDriver) FetchAllUserGroups(ctx context.Context) ([]UserGroupMapping, error) {
	var records []TeamMemberRecord
	if err := d.client.Query(allTeamMembersQuery, &records); err != nil {
		return nil, fmt.Errorf("failed to query salesforce team members: %w", err)
	}

	seen := make(map[UserGroupMapping]struct{})
	mappings := make([]UserGroupMapping, 0, len(records)*2)

	for _, r := range records {
		email := strings.ToLower(strings.TrimSpace(r.Email))
		if email == "" {
			continue
		}

		for _, group := range []string{r.Department, r.Team} {
			group = strings.TrimSpace(group)
			if group == "" {
				continue
			}

			m := UserGroupMapping{Email: email, GroupName: group}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			mappings = append(mappings, m)
		}
	}

	return mappings, nil
}

func NewSalesforceDriver(client salesforce.SalesforceInterface) *SalesforceDriver {
	d := new(SalesforceDriver)
	d.client = client

	return d
}
