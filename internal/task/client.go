package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rfoley/lodestar/internal/model"
)

// Client reads task snapshots from the external task service. The service
// owns the records; this client only polls, with a bounded timeout so a hung
// fetch cannot starve the scheduler loop.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type listResponse struct {
	Tasks []model.Task `json:"tasks"`
}

// DueToday returns open tasks due on the given local calendar day.
func (c *Client) DueToday(ctx context.Context, day time.Time) ([]model.Task, error) {
	q := url.Values{}
	q.Set("status", model.TaskStatusOpen)
	q.Set("due", day.Format("2006-01-02"))
	return c.list(ctx, q)
}

// Open returns all open tasks regardless of due date.
func (c *Client) Open(ctx context.Context) ([]model.Task, error) {
	q := url.Values{}
	q.Set("status", model.TaskStatusOpen)
	return c.list(ctx, q)
}

func (c *Client) list(ctx context.Context, q url.Values) ([]model.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tasks?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("task service returned %d", resp.StatusCode)
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}

	// A null or absent collection is an empty list, not an error.
	if lr.Tasks == nil {
		return []model.Task{}, nil
	}
	return lr.Tasks, nil
}
