// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package salesforce

import (
	"fmt"

	"github.com/k-capehart/go-salesforce/v2"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
)

var _ SalesforceInterface = (*Client)(nil)

// Client runs SOQL queries and reports the availability of Salesforce as a
// dependency.
type Client struct {
	sf *salesforce.Salesforce

	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) Query(q string, r any) error {
	err := c.sf.Query(q, r)

	available := 1.0
	if err != nil {
		available = 0.0
		c.logger.Errorf("salesforce query failed: %v", err)
	}

	if merr := c.monitor.SetDependencyAvailability(map[string]string{"component": "salesforce"}, available); merr != nil {
		c.logger.Debugf("failed to set dependency availability: %v", merr)
	}

	return err
}

// NewClient authenticates against Salesforce with client credentials.
func NewClient(domain, consumerKey, consumerSecret string, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*Client, error) {
	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         domain,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize salesforce client: %v", err)
	}

	c := new(Client)
	c.sf = sf
	c.monitor = monitor
	c.logger = logger

	return c, nil
}
