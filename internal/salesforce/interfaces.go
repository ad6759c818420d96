// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package salesforce

// SalesforceInterface runs a SOQL query and decodes the records into the
// value pointed to by the second argument.
type SalesforceInterface interface {
	Query(string, any) error
}
