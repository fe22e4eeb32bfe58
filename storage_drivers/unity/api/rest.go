// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	. "github.com/blockgate/blockgate/logging"
	"github.com/blockgate/blockgate/utils/errors"
)

const (
	httpTimeout         = 30 * time.Second
	restAPIPrefix       = "/api"
	csrfTokenHeader     = "EMC-CSRF-TOKEN"
	maxTransientRetry   = 30 * time.Second
	transientRetryStart = 500 * time.Millisecond
)

// Array error codes surfaced inside REST error bodies. Only the codes the
// client translates into typed errors are listed; everything else propagates
// as a generic API error.
const (
	errorCodeResourceNotFound   = 0x7d13005
	errorCodeLunNameInUse       = 0x6701020
	errorCodeSnapNameInUse      = 0x6000c17
	errorCodeResourceInUse      = 0x6803009
	errorCodeInitiatorExists    = 0x6803011
	errorCodeLunAlreadyAttached = 0x6803012
)

// restEntry and friends model the array's response envelopes.
type restEntry struct {
	Content json.RawMessage `json:"content"`
}

type restCollection struct {
	Entries []restEntry `json:"entries"`
}

type restInstance struct {
	Content json.RawMessage `json:"content"`
}

type restErrorBody struct {
	Error struct {
		ErrorCode      int `json:"errorCode"`
		HTTPStatusCode int `json:"httpStatusCode"`
		Messages       []struct {
			EnUS string `json:"en-US"`
		} `json:"messages"`
	} `json:"error"`
}

func (e *restErrorBody) message() string {
	if len(e.Error.Messages) > 0 {
		return e.Error.Messages[0].EnUS
	}
	return "unknown array error"
}

// restClient handles HTTP transport to the array management endpoint: basic
// auth, CSRF token acquisition, JSON codec and bounded retry of transient
// failures. Retry lives here so callers above never implement their own.
type restClient struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
	traceAPI   bool
	driverName string

	// csrfToken is shared by concurrent requests.
	tokenMutex sync.Mutex
	csrfToken  string
}

func (c *restClient) getCSRFToken() string {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	return c.csrfToken
}

func (c *restClient) setCSRFToken(token string) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	c.csrfToken = token
}

func newRestClient(endpoint, username, password string, verifyTLS, traceAPI bool, driverName string) *restClient {
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !verifyTLS},
	}
	return &restClient{
		endpoint:   endpoint,
		username:   username,
		password:   password,
		httpClient: &http.Client{Transport: tr, Timeout: httpTimeout},
		traceAPI:   traceAPI,
		driverName: driverName,
	}
}

func (c *restClient) buildURL(path string, params url.Values) string {
	u := fmt.Sprintf("https://%s%s%s", c.endpoint, restAPIPrefix, path)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// invoke sends one request and decodes either the payload or the array error
// body. Transient transport errors and 5xx responses are retried with
// exponential backoff; array errors are translated to typed errors.
func (c *restClient) invoke(ctx context.Context, method, path string, params url.Values, body, out any) error {
	var requestBody []byte
	var err error

	if body != nil {
		if requestBody, err = json.Marshal(body); err != nil {
			return fmt.Errorf("could not marshal request body: %v", err)
		}
	}

	urlString := c.buildURL(path, params)

	if c.traceAPI {
		Logd(ctx, c.driverName, true).WithFields(LogFields{
			"method": method,
			"url":    urlString,
			"body":   string(requestBody),
		}).Trace("REST API request.")
	}

	var responseBody []byte
	var statusCode int

	attempt := func() error {
		request, reqErr := http.NewRequestWithContext(ctx, method, urlString, bytes.NewReader(requestBody))
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}
		request.SetBasicAuth(c.username, c.password)
		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("X-EMC-REST-CLIENT", "true")
		if token := c.getCSRFToken(); token != "" {
			request.Header.Set(csrfTokenHeader, token)
		}

		response, doErr := c.httpClient.Do(request)
		if doErr != nil {
			// Connection-level failure, worth retrying.
			return doErr
		}
		defer func() { _ = response.Body.Close() }()

		if token := response.Header.Get(csrfTokenHeader); token != "" {
			c.setCSRFToken(token)
		}

		statusCode = response.StatusCode
		responseBody, doErr = io.ReadAll(response.Body)
		if doErr != nil {
			return doErr
		}

		if statusCode >= 500 {
			return fmt.Errorf("array returned status %d", statusCode)
		}
		return nil
	}

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.InitialInterval = transientRetryStart
	retryPolicy.MaxElapsedTime = maxTransientRetry

	notify := func(err error, duration time.Duration) {
		Logc(ctx).WithFields(LogFields{
			"increment": duration,
			"error":     err,
		}).Debug("Retrying transient array API failure.")
	}

	if err = backoff.RetryNotify(attempt, backoff.WithContext(retryPolicy, ctx), notify); err != nil {
		return errors.WrapWithConnectionError(err, "could not reach array at %s", c.endpoint)
	}

	if c.traceAPI {
		Logd(ctx, c.driverName, true).WithFields(LogFields{
			"status": statusCode,
			"body":   string(responseBody),
		}).Trace("REST API response.")
	}

	if statusCode >= 400 {
		return c.translateError(statusCode, responseBody)
	}

	if out != nil && len(responseBody) > 0 {
		if err = json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("could not parse array response: %v", err)
		}
	}
	return nil
}

// translateError maps array error bodies onto the typed error family.
func (c *restClient) translateError(statusCode int, body []byte) error {
	var arrayError restErrorBody
	if err := json.Unmarshal(body, &arrayError); err != nil {
		return fmt.Errorf("array returned status %d", statusCode)
	}

	message := arrayError.message()

	switch arrayError.Error.ErrorCode {
	case errorCodeResourceNotFound:
		return errors.NotFoundError(message)
	case errorCodeLunNameInUse, errorCodeSnapNameInUse, errorCodeInitiatorExists, errorCodeLunAlreadyAttached:
		return errors.AlreadyExistsError(message)
	case errorCodeResourceInUse:
		return errors.InUseError(message)
	}

	if statusCode == http.StatusNotFound {
		return errors.NotFoundError(message)
	}
	if statusCode == http.StatusConflict {
		return errors.AlreadyExistsError(message)
	}

	return fmt.Errorf("array API error %#x: %s", arrayError.Error.ErrorCode, message)
}

func (c *restClient) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.invoke(ctx, http.MethodGet, path, params, nil, out)
}

func (c *restClient) post(ctx context.Context, path string, body, out any) error {
	return c.invoke(ctx, http.MethodPost, path, nil, body, out)
}

func (c *restClient) delete(ctx context.Context, path string) error {
	return c.invoke(ctx, http.MethodDelete, path, nil, nil, nil)
}
