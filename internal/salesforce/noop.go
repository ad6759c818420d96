// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package salesforce

// NoopClient returns no records, it is used when no Salesforce credentials
// are configured.
type NoopClient struct{}

func (c *NoopClient) Query(q string, r any) error {
	return nil
}

func NewNoopClient() *NoopClient {
	return new(NoopClient)
}
