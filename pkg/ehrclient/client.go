// Package ehrclient is a typed HTTP client for the trialmatch API. It
// backs the table view's detail fetches and is usable standalone.
package ehrclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/trialmatch/trialmatch/internal/domain/facts"
	"github.com/trialmatch/trialmatch/internal/domain/patient"
	"github.com/trialmatch/trialmatch/internal/domain/resource"
)

// ErrNotFound is returned when the server reports 404 for an identifier.
var ErrNotFound = errors.New("ehrclient: not found")

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// ResourceList is one page of the resource listing.
type ResourceList struct {
	Resources  []*resource.EHRResource `json:"resources"`
	TotalCount int                     `json:"totalCount"`
	HasMore    bool                    `json:"hasMore"`
}

// ListResources fetches one page of resources for a patient. Empty
// patientID lists across all patients.
func (c *Client) ListResources(ctx context.Context, patientID string, limit, offset int) (*ResourceList, error) {
	q := url.Values{}
	if patientID != "" {
		q.Set("patient_id", patientID)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var out ResourceList
	if err := c.get(ctx, "/resources", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchDetail retrieves the full record for one (patientID, uid) pair.
// Satisfies tableview.DetailFetcher.
func (c *Client) FetchDetail(ctx context.Context, patientID, uid string) (*resource.EHRResource, error) {
	var out resource.EHRResource
	path := fmt.Sprintf("/patients/%s/resources/%s", url.PathEscape(patientID), url.PathEscape(uid))
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatientList is the patient roster response.
type PatientList struct {
	Patients []*patient.Profile `json:"patients"`
}

// ListPatients fetches the full patient roster.
func (c *Client) ListPatients(ctx context.Context) (*PatientList, error) {
	var out PatientList
	if err := c.get(ctx, "/patients", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPatient fetches one patient profile by identifier.
func (c *Client) GetPatient(ctx context.Context, id string) (*patient.Profile, error) {
	var out patient.Profile
	if err := c.get(ctx, "/patients/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDerivedFacts fetches the derived clinical facts for one patient.
func (c *Client) GetDerivedFacts(ctx context.Context, patientID string) (*facts.DerivedClinicalFacts, error) {
	var out facts.DerivedClinicalFacts
	path := "/patients/" + url.PathEscape(patientID) + "/derived-facts"
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
