package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Project mirrors the backend project record.
type Project struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Proposal mirrors one proposal version. Listings come back newest version
// first, so index 0 is the latest.
type Proposal struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Content   string    `json:"content"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// OnboardingForm mirrors one onboarding submission.
type OnboardingForm struct {
	ID               int64           `json:"id"`
	ProjectID        int64           `json:"project_id"`
	FormData         json.RawMessage `json:"form_data"`
	FilePath         string          `json:"file_path,omitempty"`
	ExtractedData    json.RawMessage `json:"extracted_data,omitempty"`
	ProcessingStatus string          `json:"processing_status"`
	SubmittedAt      time.Time       `json:"submitted_at"`
}

// ListProjects returns the current user's projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, "", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// NextProjectName prefills the create-project form: "Project N" where N is
// the current count plus one. A failed listing falls back to "Project 1".
func (c *Client) NextProjectName(ctx context.Context) string {
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return "Project 1"
	}
	return fmt.Sprintf("Project %d", len(projects)+1)
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	payload := map[string]string{"name": name, "description": description}
	body, contentType, err := jsonBody(payload)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var project Project
	if err := c.do(ctx, http.MethodPost, "/projects", body, contentType, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetProject returns one project.
func (c *Client) GetProject(ctx context.Context, id int64) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", id), nil, "", &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ProjectUpdate holds optional project edits; nil fields stay unchanged.
type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// UpdateProject applies edits to a project.
func (c *Client) UpdateProject(ctx context.Context, id int64, update ProjectUpdate) (*Project, error) {
	body, contentType, err := jsonBody(update)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var project Project
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/projects/%d", id), body, contentType, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProposals returns a project's proposal versions, latest first.
func (c *Client) ListProposals(ctx context.Context, projectID int64) ([]Proposal, error) {
	var proposals []Proposal
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d/proposals", projectID), nil, "", &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// SaveProposal stores edited content as the project's next proposal version.
func (c *Client) SaveProposal(ctx context.Context, projectID int64, content string) (*Proposal, error) {
	payload := map[string]string{"content": content}
	body, contentType, err := jsonBody(payload)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var proposal Proposal
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/proposals", projectID), body, contentType, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// GenerateProposal asks the backend to generate a proposal from the latest
// onboarding submission.
func (c *Client) GenerateProposal(ctx context.Context, projectID int64) (*Proposal, error) {
	body, contentType, err := jsonBody(map[string]string{})
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}
	var proposal Proposal
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/projects/%d/proposals", projectID), body, contentType, &proposal); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ErrFetchInFlight is returned when a ProposalView refresh overlaps a
// previous one; the duplicate request is dropped.
var ErrFetchInFlight = errors.New("proposal fetch already in flight")

// ProposalView tracks the latest proposal for one project. Refresh carries
// an in-flight guard so duplicate fetches are dropped rather than raced.
type ProposalView struct {
	client    *Client
	projectID int64

	mu      sync.Mutex
	loading bool
	latest  *Proposal
}

// NewProposalView creates a ProposalView for one project.
func NewProposalView(c *Client, projectID int64) *ProposalView {
	return &ProposalView{client: c, projectID: projectID}
}

// Latest returns the last fetched proposal, or nil when none exists.
func (v *ProposalView) Latest() *Proposal {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest
}

// Refresh fetches the proposal list and keeps the latest version. No
// proposals yet is a nil result, not an error. A canceled fetch applies
// nothing.
func (v *ProposalView) Refresh(ctx context.Context) (*Proposal, error) {
	v.mu.Lock()
	if v.loading {
		v.mu.Unlock()
		return nil, ErrFetchInFlight
	}
	v.loading = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.loading = false
		v.mu.Unlock()
	}()

	proposals, err := v.client.ListProposals(ctx, v.projectID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(proposals) == 0 {
		return nil, nil
	}

	latest := proposals[0]
	v.mu.Lock()
	v.latest = &latest
	v.mu.Unlock()
	return &latest, nil
}
