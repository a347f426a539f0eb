package catalogstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/carlothq/carlot-backend/internal/catalog"
	"github.com/carlothq/carlot-backend/pkg/db/models"
	apperrors "github.com/carlothq/carlot-backend/pkg/errors"
)

// DeleteResponse is the wire shape of a single delete.
type DeleteResponse struct {
	Message string     `json:"message"`
	Car     models.Car `json:"car"`
}

// BulkDeleteResponse is the wire shape of a bulk delete.
type BulkDeleteResponse struct {
	Message     string       `json:"message"`
	DeletedCars []models.Car `json:"deletedCars"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the catalog HTTP contract. Pointing it at a local
// in-process transport gives the same behavior without a socket.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient builds a catalog API client. A nil httpClient falls back to
// http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithToken returns a copy of the client that sends the bearer token on every
// request.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// List fetches one page of results.
func (c *Client) List(ctx context.Context, q catalog.ListQuery) (catalog.ListResult, error) {
	var result catalog.ListResult
	path := "/catalog"
	if encoded := q.Values().Encode(); encoded != "" {
		path += "?" + encoded
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return catalog.ListResult{}, err
	}
	return result, nil
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, id string) (models.Car, error) {
	var car models.Car
	if err := c.do(ctx, http.MethodGet, "/catalog/"+url.PathEscape(id), nil, &car); err != nil {
		return models.Car{}, err
	}
	return car, nil
}

// Create submits a new listing.
func (c *Client) Create(ctx context.Context, input catalog.CreateInput) (models.Car, error) {
	var car models.Car
	if err := c.do(ctx, http.MethodPost, "/catalog", input, &car); err != nil {
		return models.Car{}, err
	}
	return car, nil
}

// Update submits a partial patch.
func (c *Client) Update(ctx context.Context, id string, patch catalog.UpdateInput) (models.Car, error) {
	var car models.Car
	if err := c.do(ctx, http.MethodPut, "/catalog/"+url.PathEscape(id), patch, &car); err != nil {
		return models.Car{}, err
	}
	return car, nil
}

// Delete removes a single listing.
func (c *Client) Delete(ctx context.Context, id string) (DeleteResponse, error) {
	var resp DeleteResponse
	if err := c.do(ctx, http.MethodDelete, "/catalog/"+url.PathEscape(id), nil, &resp); err != nil {
		return DeleteResponse{}, err
	}
	return resp, nil
}

// BulkDelete removes several listings in one call.
func (c *Client) BulkDelete(ctx context.Context, ids []string) (BulkDeleteResponse, error) {
	var resp BulkDeleteResponse
	body := map[string][]string{"ids": ids}
	if err := c.do(ctx, http.MethodPost, "/catalog/bulk-delete", body, &resp); err != nil {
		return BulkDeleteResponse{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "decoding response body")
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var body errorBody
	message := fmt.Sprintf("request failed with status %d", resp.StatusCode)
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}
	return apperrors.New(codeForStatus(resp.StatusCode), message)
}

func codeForStatus(status int) apperrors.Code {
	switch status {
	case http.StatusBadRequest:
		return apperrors.CodeValidation
	case http.StatusUnauthorized:
		return apperrors.CodeUnauthorized
	case http.StatusForbidden:
		return apperrors.CodeForbidden
	case http.StatusNotFound:
		return apperrors.CodeNotFound
	case http.StatusConflict:
		return apperrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return apperrors.CodeOutOfStock
	case http.StatusTooManyRequests:
		return apperrors.CodeRateLimit
	case http.StatusServiceUnavailable:
		return apperrors.CodeDependency
	default:
		return apperrors.CodeInternal
	}
}
