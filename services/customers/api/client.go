// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AleutianAI/custdesk/services/customers/datatypes"
	"github.com/AleutianAI/custdesk/services/customers/telemetry"
)

// DefaultClientTimeout bounds each request when no timeout is configured.
const DefaultClientTimeout = 10 * time.Second

// Client implements Service against a running HTTP service.
//
// # Description
//
// Non-2xx responses are decoded as datatypes.ErrorResponse and mapped back
// onto the package's error values:
//
//	404      -> ErrNotFound
//	409      -> ErrDuplicateIdentifier or ErrDuplicateEmail (by code)
//	400      -> *ValidationError
//	other    -> *HTTPError
type Client struct {
	baseURL string
	http    *http.Client
}

// HTTPError is returned for statuses without a domain meaning.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a Client for baseURL, e.g. "http://localhost:8420".
// A zero timeout uses DefaultClientTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a Client that sends through hc.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) CreateCustomer(ctx context.Context, req datatypes.CreateCustomerRequest) (*datatypes.Customer, error) {
	var out datatypes.Customer
	if err := c.do(ctx, http.MethodPost, "/v1/customers", req, &out); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	var out datatypes.DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/v1/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

func (c *Client) UpdateCustomerAddresses(ctx context.Context, id string, addrs []datatypes.Address) (*datatypes.Customer, error) {
	var out datatypes.Customer
	body := datatypes.UpdateAddressesRequest{Addresses: addrs}
	path := "/v1/customers/" + url.PathEscape(id) + "/addresses"
	if err := c.do(ctx, http.MethodPut, path, body, &out); err != nil {
		return nil, fmt.Errorf("update addresses of %s: %w", id, err)
	}
	return &out, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (*datatypes.Customer, error) {
	var out datatypes.Customer
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get customer %s: %w", id, err)
	}
	return &out, nil
}

func (c *Client) ListCustomers(ctx context.Context) ([]datatypes.Customer, error) {
	var out datatypes.CustomerListResponse
	if err := c.do(ctx, http.MethodGet, "/v1/customers", nil, &out); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if out.Customers == nil {
		out.Customers = []datatypes.Customer{}
	}
	return out.Customers, nil
}

// Health returns nil if the server answers GET /health with 200.
func (c *Client) Health(ctx context.Context) error {
	var out datatypes.HealthResponse
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	telemetry.InjectContext(ctx, req.Header)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var er datatypes.ErrorResponse
	_ = json.Unmarshal(data, &er)

	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		switch er.Code {
		case datatypes.CodeDuplicateEmail:
			return ErrDuplicateEmail
		default:
			return ErrDuplicateIdentifier
		}
	case http.StatusBadRequest:
		if er.Code == datatypes.CodeValidation || len(er.Fields) > 0 {
			ve := &ValidationError{Index: -1, Fields: datatypes.FieldErrorsFromMap(er.Fields)}
			if er.Index != nil {
				ve.Index = *er.Index
			}
			if ve.Fields.Empty() {
				ve.Reason = strings.TrimPrefix(er.Error, ErrValidation.Error()+": ")
			}
			return ve
		}
	}
	return &HTTPError{StatusCode: status, Message: er.Error}
}

// IsUnavailable reports whether err means the server could not be reached.
func IsUnavailable(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}

var _ Service = (*Client)(nil)
