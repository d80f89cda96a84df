package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"

	"github.com/google/uuid"
)

// Client talks to the vendorhub API. It implements RecordWriter, RoleChecker,
// Translator and VendorReader.
type Client struct {
	BaseURL string
	// Token returns the bearer token; an empty token sends no Authorization header.
	Token   func() string
	HTTP    *http.Client
	Logger  *slog.Logger
}

func New(baseURL string, token func() string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Logger:  logger,
	}
}

type updateVendorRequest struct {
	Fields map[string]any `json:"fields"`
}

type hasRoleRequest struct {
	SubjectID string `json:"subject_id"`
	RoleName  string `json:"role_name"`
}

type hasRoleResponse struct {
	Result bool `json:"result"`
}

type translateResponse struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

type vendorDTO struct {
	VendorID      string  `json:"vendor_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	City          string  `json:"city"`
	RatingAverage float64 `json:"rating_average"`
	Stars         struct {
		Full  int `json:"full"`
		Half  int `json:"half"`
		Empty int `json:"empty"`
	} `json:"stars"`
	DealClosed   bool       `json:"deal_closed"`
	DealValue    *float64   `json:"deal_value,omitempty"`
	DealClosedAt *time.Time `json:"deal_closed_at,omitempty"`
	Version      int64      `json:"version"`
}

type listVendorsResponse struct {
	Items []vendorDTO `json:"items"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UpdateRecord sends the field mapping as a PATCH on the vendor record.
func (c *Client) UpdateRecord(ctx context.Context, request entities.MutationRequest) error {
	path := "/api/vendors/v1/vendors/" + url.PathEscape(request.TargetID)
	return c.do(ctx, "update vendor", http.MethodPatch, path, updateVendorRequest{Fields: request.Fields}, nil)
}

func (c *Client) HasRole(ctx context.Context, subjectID string, roleName string) (bool, error) {
	var response hasRoleResponse
	err := c.do(ctx, "has_role", http.MethodPost, "/api/authz/v1/rpc/has_role", hasRoleRequest{
		SubjectID: subjectID,
		RoleName:  roleName,
	}, &response)
	if err != nil {
		return false, err
	}
	return response.Result, nil
}

func (c *Client) Translate(ctx context.Context, code string) (string, error) {
	var response translateResponse
	path := "/api/vendors/v1/translations/" + url.PathEscape(code)
	if err := c.do(ctx, "translate", http.MethodGet, path, nil, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

func (c *Client) ListVendors(ctx context.Context, category string) ([]entities.VendorSummary, error) {
	path := "/api/vendors/v1/vendors"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var response listVendorsResponse
	if err := c.do(ctx, "list vendors", http.MethodGet, path, nil, &response); err != nil {
		return nil, err
	}
	items := make([]entities.VendorSummary, 0, len(response.Items))
	for _, item := range response.Items {
		items = append(items, entities.VendorSummary{
			VendorID:      item.VendorID,
			Name:          item.Name,
			Category:      item.Category,
			City:          item.City,
			RatingAverage: item.RatingAverage,
			FullStars:     item.Stars.Full,
			HalfStars:     item.Stars.Half,
			EmptyStars:    item.Stars.Empty,
			DealClosed:    item.DealClosed,
			DealValue:     item.DealValue,
			DealClosedAt:  item.DealClosedAt,
			Version:       item.Version,
		})
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, op string, method string, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &domainerrors.RemoteError{Op: op, Err: err}
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, payload)
	if err != nil {
		return &domainerrors.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.NewString())
	}
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return &domainerrors.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remote := &domainerrors.RemoteError{Op: op, Status: resp.StatusCode}
		var apiErr errorResponse
		if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr); decodeErr == nil {
			remote.Code = apiErr.Code
			remote.Message = apiErr.Message
		}
		c.logger().Warn("api call rejected",
			"event", "console_api_call_rejected",
			"module", "vendor-marketplace/vendor-console",
			"layer", "adapter",
			"operation", op,
			"status", resp.StatusCode,
			"code", remote.Code,
		)
		return remote
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &domainerrors.RemoteError{Op: op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
