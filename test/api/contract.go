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

package api

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
)

//go:embed openapi/story.yaml
var storyOpenAPI []byte

// ContractValidator checks API responses against an OpenAPI description.
// Requests are not validated: negative tests send invalid bodies on purpose.
type ContractValidator struct {
	doc *openapi3.T
}

// NewContractValidator loads and validates an OpenAPI document.
func NewContractValidator(ctx context.Context, data []byte) (*ContractValidator, error) {
	doc, err := openapi3.NewLoader().LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("loading openapi document: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}

	return &ContractValidator{
		doc: doc,
	}, nil
}

//nolint:gochecknoglobals
var (
	defaultValidatorOnce sync.Once
	defaultValidator     *ContractValidator
	errDefaultValidator  error
)

// DefaultContractValidator returns a validator for the embedded story API
// description. The document is parsed once per process.
func DefaultContractValidator() (*ContractValidator, error) {
	defaultValidatorOnce.Do(func() {
		defaultValidator, errDefaultValidator = NewContractValidator(context.Background(), storyOpenAPI)
	})

	return defaultValidator, errDefaultValidator
}

// Validate checks the response to req, which exercised the operation
// documented under the given path template.
func (v *ContractValidator) Validate(ctx context.Context, req *http.Request, template string, response *Response) error {
	pathItem := v.doc.Paths.Value(template)
	if pathItem == nil {
		return fmt.Errorf("%w: path %s is not documented", ErrContractViolation, template)
	}

	op := pathItem.GetOperation(req.Method)
	if op == nil {
		return fmt.Errorf("%w: %s %s is not documented", ErrContractViolation, req.Method, template)
	}

	route := &routers.Route{
		Spec:      v.doc,
		Path:      template,
		PathItem:  pathItem,
		Method:    req.Method,
		Operation: op,
	}

	options := &openapi3filter.Options{
		IncludeResponseStatus: true,
	}

	input := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: &openapi3filter.RequestValidationInput{
			Request: req,
			Route:   route,
			Options: options,
		},
		Status:  response.StatusCode,
		Header:  response.Header,
		Options: options,
	}

	input.SetBodyBytes(response.Body)

	if err := openapi3filter.ValidateResponse(ctx, input); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrContractViolation, req.Method, template, err)
	}

	return nil
}
