package people

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"curator/internal/services"
)

// Employee is one personnel directory record. Name fields carry both the
// preferred and legal variants so matching can permute over all of them.
type Employee struct {
	EmployeeID  string `json:"employeeId"`
	FirstLegal  string `json:"nameFirst"`
	FirstPref   string `json:"nameFirstPreferred"`
	MiddleLegal string `json:"nameMiddle"`
	MiddlePref  string `json:"nameMiddlePreferred"`
	LastLegal   string `json:"nameLast"`
	LastPref    string `json:"nameLastPreferred"`
	Email       string `json:"email"`
	Title       string `json:"businessTitle"`
	ORCID       string `json:"orcid"`
	OrgCode     string `json:"supOrgCode"`
	OrgName     string `json:"supOrgName"`
	WorkerType  string `json:"workerType"`

	// Alumni follows the directory's presence convention: the field is only
	// present (and true) on records of former employees. The zero value means
	// current employee; there is no explicit false.
	Alumni bool `json:"alumni"`
}

// FirstNames returns the distinct preferred and legal first names.
func (e Employee) FirstNames() []string { return distinct(e.FirstPref, e.FirstLegal) }

// MiddleNames returns the distinct preferred and legal middle names.
func (e Employee) MiddleNames() []string { return distinct(e.MiddlePref, e.MiddleLegal) }

// LastNames returns the distinct preferred and legal family names.
func (e Employee) LastNames() []string { return distinct(e.LastPref, e.LastLegal) }

// DisplayName returns the best available "First Last" form.
func (e Employee) DisplayName() string {
	first := e.FirstPref
	if first == "" {
		first = e.FirstLegal
	}
	last := e.LastPref
	if last == "" {
		last = e.LastLegal
	}
	return strings.TrimSpace(first + " " + last)
}

func distinct(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Directory defines the personnel lookups used by the matching core.
type Directory interface {
	SearchByName(ctx context.Context, name string) ([]Employee, error)
	GetByID(ctx context.Context, employeeID string) (*Employee, error)
	LookupByOrcid(ctx context.Context, orcid string) ([]Employee, error)
}

// Client provides access to the personnel directory REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Directory = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a personnel directory client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("directory base url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("directory api key required (set PEOPLE_API_KEY)")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchByName returns directory records whose names match the search term.
// An empty slice means no matches; that is not an error.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("search name must not be empty")
	}
	var results []Employee
	if err := c.get(ctx, "Search/ByName/"+url.PathEscape(name), &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetByID fetches a single directory record. Returns nil when the identifier
// is unknown.
func (c *Client) GetByID(ctx context.Context, employeeID string) (*Employee, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, errors.New("employee id must not be empty")
	}
	var result Employee
	err := c.get(ctx, "Person/GetById/"+url.PathEscape(employeeID), &result)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if strings.TrimSpace(result.EmployeeID) == "" {
		return nil, nil
	}
	return &result, nil
}

// LookupByOrcid returns every directory record carrying the given ORCID.
// More than one element signals a directory inconsistency the caller must
// surface, never resolve silently.
func (c *Client) LookupByOrcid(ctx context.Context, orcid string) ([]Employee, error) {
	orcid = strings.TrimSpace(orcid)
	if orcid == "" {
		return nil, errors.New("orcid must not be empty")
	}
	var results []Employee
	if err := c.get(ctx, "Search/ByOrcid/"+url.PathEscape(orcid), &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, payload any) error {
	endpoint := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("APIKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return services.Wrap(services.ErrDirectoryUnavailable, "people", "get",
			fmt.Sprintf("request failed (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return services.Wrap(services.ErrNotFound, "people", "get", endpoint, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "people", "get",
			fmt.Sprintf("directory rejected credentials (%d)", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return services.Wrap(services.ErrDirectoryUnavailable, "people", "get",
			fmt.Sprintf("directory returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return services.Wrap(services.ErrDirectoryUnavailable, "people", "get", "decode response", err)
	}
	return nil
}
