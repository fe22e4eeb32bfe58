// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

// Package api is a hand-trimmed swagger-style client for the Fungible
// Storage Cluster composer API, built on the go-openapi runtime. It exposes
// two services mirroring the upstream API groups: StorageService for volume,
// snapshot and port operations and TopologyService for host lookup.
package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-openapi/runtime"
	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"

	"github.com/blockgate/blockgate/utils/errors"
)

const (
	DefaultBasePath = "/FunCC/v1"

	defaultTimeout = 90 * time.Second
)

// ClientConfig holds the settings needed to talk to one cluster composer.
type ClientConfig struct {
	Endpoint  string // host[:port]
	BasePath  string
	Username  string
	Password  string
	VerifyTLS bool
}

// Client bundles the per-group services sharing one transport.
type Client struct {
	Storage  *StorageService
	Topology *TopologyService

	runtime  *httptransport.Runtime
	authInfo runtime.ClientAuthInfoWriter
	timeout  time.Duration
}

// NewAPIClient builds a client for one cluster composer endpoint.
func NewAPIClient(config ClientConfig) *Client {
	basePath := config.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}

	rt := httptransport.New(config.Endpoint, basePath, []string{"https"})
	rt.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !config.VerifyTLS,
			MinVersion:         tls.VersionTLS12,
		},
	}

	c := &Client{
		runtime: rt,
		timeout: defaultTimeout,
	}
	if config.Username != "" {
		c.authInfo = httptransport.BasicAuth(config.Username, config.Password)
	}
	c.Storage = &StorageService{client: c}
	c.Topology = &TopologyService{client: c}
	return c
}

// operation describes one request to the composer API.
type operation struct {
	id         string
	method     string
	path       string
	pathParams map[string]string
	query      url.Values
	body       interface{}
	payload    interface{}

	// conflictInUse maps HTTP 409 to an in-use error instead of the
	// default already-exists translation. Used by delete and detach,
	// where a conflict means the resource is still attached.
	conflictInUse bool
}

func (c *Client) submit(ctx context.Context, op *operation) error {
	_, err := c.runtime.Submit(&runtime.ClientOperation{
		ID:                 op.id,
		Method:             op.method,
		PathPattern:        op.path,
		ProducesMediaTypes: []string{"application/json"},
		ConsumesMediaTypes: []string{"application/json"},
		Schemes:            []string{"https"},
		Params: &operationParams{
			pathParams: op.pathParams,
			query:      op.query,
			body:       op.body,
			timeout:    c.timeout,
		},
		Reader: &operationReader{
			id:            op.id,
			payload:       op.payload,
			conflictInUse: op.conflictInUse,
		},
		AuthInfo: c.authInfo,
		Context:  ctx,
	})
	return err
}

// operationParams writes path, query and body parameters onto the request.
type operationParams struct {
	pathParams map[string]string
	query      url.Values
	body       interface{}
	timeout    time.Duration
}

func (p *operationParams) WriteToRequest(r runtime.ClientRequest, _ strfmt.Registry) error {
	if err := r.SetTimeout(p.timeout); err != nil {
		return err
	}
	for name, value := range p.pathParams {
		if err := r.SetPathParam(name, value); err != nil {
			return err
		}
	}
	for name, values := range p.query {
		if err := r.SetQueryParam(name, values...); err != nil {
			return err
		}
	}
	if p.body != nil {
		return r.SetBodyParam(p.body)
	}
	return nil
}

// operationReader consumes the response into payload on success and
// translates the error envelope on failure.
type operationReader struct {
	id            string
	payload       interface{}
	conflictInUse bool
}

func (o *operationReader) ReadResponse(response runtime.ClientResponse, consumer runtime.Consumer) (interface{}, error) {
	if response.Code() >= 200 && response.Code() < 300 {
		if o.payload != nil {
			if err := consumer.Consume(response.Body(), o.payload); err != nil && err != io.EOF {
				return nil, err
			}
		}
		return o.payload, nil
	}

	var fields ErrorResponseFields
	_ = consumer.Consume(response.Body(), &fields)
	return nil, o.translateError(response.Code(), &fields)
}

func (o *operationReader) translateError(code int, fields *ErrorResponseFields) error {
	message := fields.ErrorMessage
	if message == "" {
		message = fields.Message
	}
	if message == "" {
		message = http.StatusText(code)
	}

	switch code {
	case http.StatusNotFound:
		return errors.NotFoundError("%s: %s", o.id, message)
	case http.StatusConflict:
		if o.conflictInUse {
			return errors.InUseError("%s: %s", o.id, message)
		}
		return errors.AlreadyExistsError("%s: %s", o.id, message)
	case http.StatusBadRequest:
		return errors.InvalidInputError("%s: %s", o.id, message)
	default:
		return fmt.Errorf("%s failed (HTTP %d): %s", o.id, code, message)
	}
}

// dataEnvelope matches the composer's {status, message, data} wrapper.
type dataEnvelope[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}
