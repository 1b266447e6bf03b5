package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Tools marks the platform categories involved in the automation (step 2
// checkboxes).
type Tools struct {
	CRM          bool `json:"crm"`
	Marketing    bool `json:"marketing"`
	Database     bool `json:"database"`
	Productivity bool `json:"productivity"`
	API          bool `json:"api"`
}

// Triggers marks what should start the automation (step 3 checkboxes).
type Triggers struct {
	UserAction bool `json:"userAction"`
	APIRequest bool `json:"apiRequest"`
	Scheduled  bool `json:"scheduled"`
	EventBased bool `json:"eventBased"`
}

// OnboardingData is the full questionnaire. The whole struct is serialized
// to one JSON blob on submit; yes/no radio fields carry "yes"/"no" or stay
// empty when unanswered.
type OnboardingData struct {
	// Step 1: profile and technical experience.
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	CompanyName         string `json:"companyName"`
	IndustryType        string `json:"industryType"`
	TechnicalBackground string `json:"technicalBackground"`

	// Step 2: project details.
	AutomationGoal     string `json:"automationGoal"`
	Tools              Tools  `json:"tools"`
	NeedsThirdPartyAPI string `json:"needsThirdPartyApi"`

	// Step 3: workflow details.
	CurrentProcess  string   `json:"currentProcess"`
	PainPoints      string   `json:"painPoints"`
	DesiredWorkflow string   `json:"desiredWorkflow"`
	Triggers        Triggers `json:"triggers"`

	// Step 4: constraints and preferences.
	Timeline                    string `json:"timeline"`
	HasBudget                   string `json:"hasBudget"`
	NeedsPlatformRecommendation string `json:"needsPlatformRecommendation"`
	NeedsAI                     string `json:"needsAI"`

	// Step 5: documentation.
	HasDocumentation string `json:"hasDocumentation"`
	AdditionalInfo   string `json:"additionalInfo"`
}

// FieldError is one failed validation with its inline message.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors blocks a submit; one entry per failed required field.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(msgs, "; ")
}

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submission has not finished; the duplicate is dropped.
	ErrSubmitInFlight = errors.New("submission already in flight")
	// ErrBadAttachment is returned for attachments outside the accepted
	// extensions.
	ErrBadAttachment = errors.New("attachment must be a .pdf, .docx or .json file")
)

var emailPattern = regexp.MustCompile(`(?i)^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

var attachmentExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".json": true,
}

const (
	firstStep = 1
	lastStep  = 5

	statusTimeout = 5 * time.Second
)

// Wizard drives the five-step onboarding questionnaire for one project.
// Next/Prev clamp the step counter to [1,5] without validating anything;
// required fields are enforced only when Submit runs. Field values survive a
// failed submit so no work is lost.
type Wizard struct {
	client    *Client
	projectID int64

	mu          sync.Mutex
	step        int
	data        OnboardingData
	fileName    string
	fileContent []byte
	submitting  bool
	bypassed    bool
}

// NewWizard creates a Wizard for one project, starting at step 1.
func NewWizard(c *Client, projectID int64) *Wizard {
	return &Wizard{client: c, projectID: projectID, step: firstStep}
}

// Step returns the current step, always within [1,5].
func (w *Wizard) Step() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Next advances one step, clamped at 5. No validation runs; users may fill
// fields out of order.
func (w *Wizard) Next() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step < lastStep {
		w.step++
	}
}

// Prev goes back one step, clamped at 1.
func (w *Wizard) Prev() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step > firstStep {
		w.step--
	}
}

// Data returns a copy of the entered values.
func (w *Wizard) Data() OnboardingData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.data
}

// SetData replaces the entered values.
func (w *Wizard) SetData(data OnboardingData) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data = data
}

// Update edits the entered values in place.
func (w *Wizard) Update(fn func(*OnboardingData)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(&w.data)
}

// AttachFile stores the optional documentation attachment. Only .pdf, .docx
// and .json are accepted, by extension alone.
func (w *Wizard) AttachFile(name string, content []byte) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !attachmentExtensions[ext] {
		return ErrBadAttachment
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fileName = name
	w.fileContent = content
	return nil
}

// Validate checks the required fields with their inline messages. Only
// Submit enforces this; intermediate steps never do.
func (w *Wizard) Validate() ValidationErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return validateData(w.data)
}

func validateData(data OnboardingData) ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(data.FullName) == "" {
		errs = append(errs, FieldError{Field: "fullName", Message: "Full name is required"})
	}
	switch email := strings.TrimSpace(data.Email); {
	case email == "":
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	case !emailPattern.MatchString(email):
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email address"})
	}
	if strings.TrimSpace(data.AutomationGoal) == "" {
		errs = append(errs, FieldError{Field: "automationGoal", Message: "Automation goal is required"})
	}
	if strings.TrimSpace(data.DesiredWorkflow) == "" {
		errs = append(errs, FieldError{Field: "desiredWorkflow", Message: "This field is required"})
	}
	return errs
}

// Submit validates the required fields, then performs exactly one multipart
// POST carrying the whole questionnaire under form_data plus the optional
// attachment. A submit while one is in flight returns ErrSubmitInFlight
// without a request. Success resets the wizard to step 1; failure preserves
// every entered value so the user can retry.
func (w *Wizard) Submit(ctx context.Context) (*OnboardingForm, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if errs := validateData(w.data); len(errs) > 0 {
		w.mu.Unlock()
		return nil, errs
	}
	w.submitting = true
	data := w.data
	fileName := w.fileName
	fileContent := w.fileContent
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	body, contentType, err := encodeSubmission(data, fileName, fileContent)
	if err != nil {
		return nil, &APIError{Kind: KindNetwork, Message: err.Error()}
	}

	var form OnboardingForm
	path := fmt.Sprintf("/projects/%d/onboarding", w.projectID)
	if err := w.client.do(ctx, http.MethodPost, path, body, contentType, &form); err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.step = firstStep
	w.data = OnboardingData{}
	w.fileName = ""
	w.fileContent = nil
	w.bypassed = true
	w.mu.Unlock()
	return &form, nil
}

func encodeSubmission(data OnboardingData, fileName string, fileContent []byte) (*bytes.Buffer, string, error) {
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("form_data", string(blob)); err != nil {
		return nil, "", err
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(fileContent); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

// Status summarizes whether the project has already onboarded.
type Status struct {
	Complete bool
	Latest   *OnboardingForm
	Data     *OnboardingData
}

// Status checks for existing submissions under a fixed 5-second timeout. A
// 404 means "no submissions yet" and is not an error; any other failure is
// surfaced as retryable. When submissions exist, the wizard is bypassed in
// favor of the latest submission's field mapping until Reopen is called.
func (w *Wizard) Status(ctx context.Context) (Status, error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()

	var forms []OnboardingForm
	path := fmt.Sprintf("/projects/%d/onboarding", w.projectID)
	if err := w.client.do(ctx, http.MethodGet, path, nil, "", &forms); err != nil {
		if IsNotFound(err) {
			return Status{}, nil
		}
		return Status{}, err
	}
	if len(forms) == 0 {
		return Status{}, nil
	}

	latest := forms[len(forms)-1]
	var data OnboardingData
	if err := json.Unmarshal(latest.FormData, &data); err != nil {
		data = OnboardingData{}
	}

	w.mu.Lock()
	w.bypassed = true
	w.mu.Unlock()
	return Status{Complete: true, Latest: &latest, Data: &data}, nil
}

// Bypassed reports whether the wizard is replaced by the read-only summary
// of the latest submission.
func (w *Wizard) Bypassed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bypassed
}

// Reopen re-enters the wizard after a completed onboarding, back at step 1.
// A new submission supersedes the prior one as latest.
func (w *Wizard) Reopen() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bypassed = false
	w.step = firstStep
}
