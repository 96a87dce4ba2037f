/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//nolint:revive // naming conventions acceptable in test code
package api

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/onsi/ginkgo/v2"
)

//go:generate mockgen -source=api_client.go -destination=mock/interfaces.go -package=mock

// HTTPDoer is the part of *http.Client the API client depends on.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type APIClient struct {
	baseURL   string
	client    HTTPDoer
	authToken string
	config    *TestConfig
	endpoints *Endpoints
	validator *ContractValidator
	log       logr.Logger
}

// Option customises an APIClient.
type Option func(*APIClient)

// WithHTTPDoer replaces the default *http.Client.
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *APIClient) {
		c.client = doer
	}
}

// WithLogger replaces the default GinkgoWriter backed logger.
func WithLogger(log logr.Logger) Option {
	return func(c *APIClient) {
		c.log = log
	}
}

// WithContractValidator validates every response against the given
// description, regardless of the VALIDATE_CONTRACT setting.
func WithContractValidator(validator *ContractValidator) Option {
	return func(c *APIClient) {
		c.validator = validator
	}
}

// NewAPIClientWithConfig returns a client for config.BaseURL.
func NewAPIClientWithConfig(config *TestConfig, options ...Option) (*APIClient, error) {
	c := &APIClient{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: config.RequestTimeout,
		},
		config:    config,
		endpoints: NewEndpoints(),
		log:       ginkgo.GinkgoLogr,
	}

	for _, o := range options {
		o(c)
	}

	if c.validator == nil && config.ValidateContract {
		validator, err := DefaultContractValidator()
		if err != nil {
			return nil, err
		}

		c.validator = validator
	}

	return c, nil
}

func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

// BaseURL returns the API root requests are sent to.
func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections held by the underlying transport.
func (c *APIClient) Close() {
	if closer, ok := c.client.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}

// logError logs a generic error with trace context.
func (c *APIClient) logError(method, path string, duration time.Duration, traceParent string, err error, context string) {
	c.log.Error(err, context, "method", method, "path", path, "duration", duration, "traceparent", traceParent)
	c.logTraceContext(traceParent)
}

// logUnexpectedStatus logs an unexpected HTTP status code.
func (c *APIClient) logUnexpectedStatus(method, path string, expectedStatus, actualStatus int, body, traceParent string) {
	c.log.Info("unexpected status", "method", method, "path", path, "expected", expectedStatus, "got", actualStatus, "body", body, "traceparent", traceParent)
	c.logTraceContext(traceParent)
}

// logTraceContext logs the trace context information.
func (c *APIClient) logTraceContext(traceParent string) {
	c.log.Info("use the trace ID to search logs for this request", "traceID", extractTraceID(traceParent))
}

// generateTraceID creates a new W3C trace ID.
// A fresh trace per request lets a failure be found in the server's logs.
func generateTraceID() string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// generateSpanID creates a new W3C span ID.
func generateSpanID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)

	return hex.EncodeToString(bytes)
}

// createTraceParent creates a W3C traceparent header value.
func createTraceParent() string {
	return fmt.Sprintf("00-%s-%s-01", generateTraceID(), generateSpanID())
}

// extractTraceID extracts the trace ID from a traceparent header value.
func extractTraceID(traceParent string) string {
	parts := strings.Split(traceParent, "-")
	if len(parts) >= 2 {
		return parts[1]
	}

	return traceParent
}

// operation identifies the documented operation a request exercises.
type operation struct {
	method   string
	template string
}

//nolint:cyclop // test code complexity is acceptable
func (c *APIClient) doRequest(ctx context.Context, op operation, path string, body interface{}, expectedStatus int) (*Response, error) {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, op.method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	// Add W3C Trace Context headers
	traceParent := createTraceParent()
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=ginkgo")
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logError(op.method, path, duration, traceParent, err, "http request failed")
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logError(op.method, path, duration, traceParent, err, "reading response body")
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		Method:     op.method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		TraceID:    extractTraceID(traceParent),
	}

	if c.config.LogRequests || c.config.DebugLogging {
		c.log.Info("request complete", "method", op.method, "path", path, "status", resp.StatusCode, "duration", duration, "traceparent", traceParent)
	}

	if (c.config.LogResponses || c.config.DebugLogging) && len(respBody) > 0 {
		c.log.Info("response body", "method", op.method, "path", path, "body", string(respBody))
	}

	if expectedStatus > 0 && resp.StatusCode != expectedStatus {
		c.logUnexpectedStatus(op.method, path, expectedStatus, resp.StatusCode, string(respBody), traceParent)

		return response, &StatusError{
			Method:   op.method,
			Path:     path,
			Expected: expectedStatus,
			Actual:   resp.StatusCode,
			Body:     string(respBody),
			TraceID:  response.TraceID,
		}
	}

	if c.validator != nil {
		if err := c.validator.Validate(ctx, req, op.template, response); err != nil {
			c.logError(op.method, path, duration, traceParent, err, "contract validation")
			return response, bodyError(err, response, "")
		}
	}

	return response, nil
}

// decodeEnvelope unmarshals the standard {msg, storyId} response.
// decodeError reports an undecodable body with the status and body attached.
func decodeError(response *Response, what string, err error) error {
	return bodyError(fmt.Errorf("%w: unmarshaling %s: %w", ErrMalformedBody, what, err), response, "")
}

func decodeEnvelope(response *Response) (*APIResponse, error) {
	result := &APIResponse{
		Raw: response,
	}

	if err := json.Unmarshal(response.Body, result); err != nil {
		return nil, decodeError(response, "story response", err)
	}

	return result, nil
}

// Login authenticates and returns the access token. It does not install the
// token, see NewSession for that.
func (c *APIClient) Login(ctx context.Context, userName, password string) (*LoginResponse, error) {
	op := operation{http.MethodPost, PathAuthentication}

	response, err := c.doRequest(ctx, op, c.endpoints.Authentication(), &LoginRequest{UserName: userName, Password: password}, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}

	var login LoginResponse
	if err := json.Unmarshal(response.Body, &login); err != nil {
		return nil, decodeError(response, "login response", err)
	}

	if login.AccessToken == "" {
		return nil, &BodyError{Err: ErrMissingToken, Status: response.StatusCode, Body: string(response.Body)}
	}

	return &login, nil
}

// CreateStory creates a new story, the API answers 201 Created.
func (c *APIClient) CreateStory(ctx context.Context, payload interface{}) (*APIResponse, error) {
	op := operation{http.MethodPost, PathCreateStory}

	response, err := c.doRequest(ctx, op, c.endpoints.CreateStory(), payload, http.StatusCreated)
	if err != nil {
		return nil, fmt.Errorf("creating story: %w", err)
	}

	return decodeEnvelope(response)
}

// EditStory replaces the story's content.
func (c *APIClient) EditStory(ctx context.Context, storyID string, payload interface{}) (*APIResponse, error) {
	path, err := c.endpoints.EditStory(storyID)
	if err != nil {
		return nil, fmt.Errorf("editing story: %w", err)
	}

	response, err := c.doRequest(ctx, operation{http.MethodPut, PathEditStory}, path, payload, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("editing story: %w", err)
	}

	return decodeEnvelope(response)
}

// ListStories returns every story visible to the session.
func (c *APIClient) ListStories(ctx context.Context) (*StoryList, error) {
	op := operation{http.MethodGet, PathListStories}

	response, err := c.doRequest(ctx, op, c.endpoints.ListStories(), nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("listing stories: %w", err)
	}

	list := &StoryList{
		Raw: response,
	}

	if err := json.Unmarshal(response.Body, &list.Items); err != nil {
		return nil, decodeError(response, "stories response", err)
	}

	return list, nil
}

// DeleteStory removes the story.
func (c *APIClient) DeleteStory(ctx context.Context, storyID string) (*APIResponse, error) {
	path, err := c.endpoints.DeleteStory(storyID)
	if err != nil {
		return nil, fmt.Errorf("deleting story: %w", err)
	}

	response, err := c.doRequest(ctx, operation{http.MethodDelete, PathDeleteStory}, path, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("deleting story: %w", err)
	}

	return decodeEnvelope(response)
}

// ExpectRejection checks that a call which was expected to fail did so with
// the given status. On success it returns the StatusError so callers can
// inspect the response message.
func ExpectRejection(result *APIResponse, err error, status int) (*StatusError, error) {
	if err == nil {
		actual := &StatusError{Expected: status}

		if result != nil && result.Raw != nil {
			actual.Method = result.Raw.Method
			actual.Path = result.Raw.Path
			actual.Actual = result.Raw.StatusCode
			actual.Body = string(result.Raw.Body)
			actual.TraceID = result.Raw.TraceID
		}

		return nil, actual
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return nil, err
	}

	if statusErr.Actual != status {
		return nil, &StatusError{
			Method:   statusErr.Method,
			Path:     statusErr.Path,
			Expected: status,
			Actual:   statusErr.Actual,
			Body:     statusErr.Body,
			TraceID:  statusErr.TraceID,
		}
	}

	return statusErr, nil
}
