// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/canonical/lms-bridge/internal/logging"
	"github.com/canonical/lms-bridge/internal/monitoring"
	"github.com/canonical/lms-bridge/internal/tracing"
)

var _ OpenFGAClientInterface = (*Client)(nil)

type Client struct {
	c *client.OpenFgaClient

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

func (c *Client) reportAvailability(err error) {
	available := 1.0
	if err != nil {
		available = 0
	}
	if mErr := c.monitor.SetDependencyAvailability(map[string]string{"component": "openfga"}, available); mErr != nil {
		c.logger.Debugf("failed to set openfga availability: %v", mErr)
	}
}

func (c *Client) Check(ctx context.Context, user, relation, object string, contextualTuples ...Tuple) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.Check")
	defer span.End()

	body := client.ClientCheckRequest{
		User:     user,
		Relation: relation,
		Object:   object,
	}
	for _, t := range contextualTuples {
		body.ContextualTuples = append(body.ContextualTuples, t.contextual())
	}

	resp, err := c.c.Check(ctx).Body(body).Execute()
	c.reportAvailability(err)
	if err != nil {
		c.logger.Errorf("issues performing check operation: %v", err)
		return false, err
	}

	return resp.GetAllowed(), nil
}

func (c *Client) ReadModel(ctx context.Context) (*fga.AuthorizationModel, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.ReadModel")
	defer span.End()

	resp, err := c.c.ReadAuthorizationModel(ctx).Execute()
	c.reportAvailability(err)
	if err != nil {
		c.logger.Errorf("issues reading authorization model: %v", err)
		return nil, err
	}

	model := resp.GetAuthorizationModel()
	return &model, nil
}

// CompareModel reports whether the store's model has the type definitions
// of model.
func (c *Client) CompareModel(ctx context.Context, model fga.AuthorizationModel) (bool, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.CompareModel")
	defer span.End()

	current, err := c.ReadModel(ctx)
	if err != nil {
		return false, err
	}

	if current.GetSchemaVersion() != model.GetSchemaVersion() {
		return false, nil
	}

	return reflect.DeepEqual(current.GetTypeDefinitions(), model.GetTypeDefinitions()), nil
}

// WriteModel stores a model given as JSON and returns its id.
func (c *Client) WriteModel(ctx context.Context, model []byte) (string, error) {
	ctx, span := c.tracer.Start(ctx, "openfga.Client.WriteModel")
	defer span.End()

	var body client.ClientWriteAuthorizationModelRequest
	if err := json.Unmarshal(model, &body); err != nil {
		return "", fmt.Errorf("failed to parse authorization model: %v", err)
	}

	resp, err := c.c.WriteAuthorizationModel(ctx).Body(body).Execute()
	c.reportAvailability(err)
	if err != nil {
		return "", fmt.Errorf("failed to write authorization model: %v", err)
	}

	return resp.GetAuthorizationModelId(), nil
}

func NewClient(cfg *Config) *Client {
	c := new(Client)

	c.tracer = cfg.Tracer
	c.monitor = cfg.Monitor
	c.logger = cfg.Logger

	fgaConfig := &client.ClientConfiguration{
		ApiUrl:               cfg.apiURL(),
		StoreId:              cfg.StoreID,
		AuthorizationModelId: cfg.AuthModelID,
		Debug:                cfg.Debug,
		HTTPClient:           &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
	}
	if cfg.ApiToken != "" {
		fgaConfig.Credentials = &credentials.Credentials{
			Method: credentials.CredentialsMethodApiToken,
			Config: &credentials.Config{ApiToken: cfg.ApiToken},
		}
	}

	fgaClient, err := client.NewSdkClient(fgaConfig)
	if err != nil {
		c.logger.Fatalf("issues setting up OpenFGA client %s", err)
	}

	c.c = fgaClient

	return c
}
