// Package galaxy is a thin client for the subset of the Galaxy REST API used to
// import and run published workflows.
//
// Key types:
//   - [Client] issues the requests, one at a time, with no retries
//   - [WorkflowSummary] is the id/name pair returned for a workflow
//   - [APIError] reports a non-success HTTP status from the platform
package galaxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"galaxy-launch/internal/config"
	"galaxy-launch/internal/logger"
)

const (
	workflowsPath = "/api/workflows"
	importPath    = "/api/workflows/import"

	userAgent = "galaxy-launch"
)

// WorkflowSummary is the part of a Galaxy workflow document the launcher needs.
// Other fields returned by the platform are ignored.
type WorkflowSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to one Galaxy instance.
//
// Create with [NewClient]. A Client holds no per-call state and may be shared.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// NewClient creates a [Client] for the platform described by cfg.
//
// Requests carry Accept: application/json and, when cfg.APIKey is set, an
// x-api-key header. Failed requests are never retried.
func NewClient(cfg config.PlatformConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.Discard()
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetRetryCount(0)

	if cfg.APIKey != "" {
		rc.SetHeader("x-api-key", cfg.APIKey)
	}

	return &Client{http: rc, log: log}
}

// GetWorkflow fetches the summary of a workflow by id (GET /api/workflows/{id}).
func (c *Client) GetWorkflow(ctx context.Context, id string) (*WorkflowSummary, error) {
	var summary WorkflowSummary
	path := workflowsPath + "/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListWorkflows fetches the current user's workflows (GET /api/workflows),
// preserving the order the platform returns them in.
func (c *Client) ListWorkflows(ctx context.Context) ([]WorkflowSummary, error) {
	var workflows []WorkflowSummary
	if err := c.do(ctx, http.MethodGet, workflowsPath, nil, &workflows); err != nil {
		return nil, err
	}
	return workflows, nil
}

// ImportWorkflow asks the platform to copy a published workflow into the
// current user's account (POST /api/workflows/import).
//
// The request body is the form field workflow_id. The response body is not
// decoded: the platform does not reliably report the new copy's id there.
func (c *Client) ImportWorkflow(ctx context.Context, id string) error {
	form := map[string]string{"workflow_id": id}
	return c.do(ctx, http.MethodPost, importPath, form, nil)
}

// do performs a request and decodes a JSON response into result when non-nil.
func (c *Client) do(ctx context.Context, method, path string, form map[string]string, result any) error {
	req := c.http.R().SetContext(ctx)
	if form != nil {
		req.SetFormData(form)
	}
	if result != nil {
		req.SetResult(result).ForceContentType("application/json")
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.log.Debug("galaxy request completed", "method", method, "path", path, "status", resp.StatusCode())

	if resp.IsError() {
		return newAPIError(method, path, resp.StatusCode(), resp.Body())
	}
	return nil
}

// APIError reports a non-success response from the Galaxy API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int

	// Code is Galaxy's err_code, when the body carried one.
	Code int

	// Message is Galaxy's err_msg, or the raw response body otherwise.
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, msg)
}

// errorBody is Galaxy's JSON error document.
type errorBody struct {
	Message string `json:"err_msg"`
	Code    int    `json:"err_code"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		apiErr.Message = eb.Message
		apiErr.Code = eb.Code
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	return apiErr
}
