package rest

import (
	"context"
	"net/http"

	"github.com/tidemark-io/atlassian/pkg/atlassian"
)

// Get implements atlassian.Client.
func (c *Client) Get(ctx context.Context, path string, opts ...atlassian.RequestOption) (any, error) {
	req := atlassian.NewRequest(http.MethodGet, path, opts...)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.advancedFor(req) {
		return resp, nil
	}

	if req.Binary {
		return resp.Body, nil
	}

	if len(resp.Body) == 0 {
		return nil, nil
	}

	value, err := resp.JSON()
	if err != nil {
		// A successful response that isn't JSON degrades to its text.
		c.logger.Error("decoding response body", map[string]interface{}{"error": err.Error()})

		return resp.Text(), nil
	}

	return value, nil
}

// Post implements atlassian.Client.
func (c *Client) Post(ctx context.Context, path string, opts ...atlassian.RequestOption) (any, error) {
	return c.send(ctx, http.MethodPost, path, opts)
}

// Put implements atlassian.Client.
func (c *Client) Put(ctx context.Context, path string, opts ...atlassian.RequestOption) (any, error) {
	return c.send(ctx, http.MethodPut, path, opts)
}

// Patch implements atlassian.Client.
func (c *Client) Patch(ctx context.Context, path string, opts ...atlassian.RequestOption) (any, error) {
	return c.send(ctx, http.MethodPatch, path, opts)
}

// Delete implements atlassian.Client. Servers often answer deletes with no
// body; the result is an empty map then, keeping the return type uniform.
func (c *Client) Delete(ctx context.Context, path string, opts ...atlassian.RequestOption) (any, error) {
	req := atlassian.NewRequest(http.MethodDelete, path, opts...)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.advancedFor(req) {
		return resp, nil
	}

	value := c.lenientJSON(resp)
	if value == nil {
		return map[string]any{}, nil
	}

	return value, nil
}

func (c *Client) send(ctx context.Context, method, path string, opts []atlassian.RequestOption) (any, error) {
	req := atlassian.NewRequest(method, path, opts...)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if c.advancedFor(req) {
		return resp, nil
	}

	return c.lenientJSON(resp), nil
}

// lenientJSON decodes a successful response body, degrading to nil on an
// empty body or a decode failure (logged, never raised).
func (c *Client) lenientJSON(resp *atlassian.Response) any {
	if len(resp.Body) == 0 {
		c.logger.Debug("received response with no content", nil)

		return nil
	}

	value, err := resp.JSON()
	if err != nil {
		c.logger.Error("decoding response body", map[string]interface{}{"error": err.Error()})

		return nil
	}

	return value
}
