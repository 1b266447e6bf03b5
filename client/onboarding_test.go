package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validOnboardingData() OnboardingData {
	return OnboardingData{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		AutomationGoal:  "Sync leads into the CRM",
		DesiredWorkflow: "New HubSpot lead creates a Postgres record",
		Tools:           Tools{CRM: true, Database: true},
		Triggers:        Triggers{UserAction: true},
	}
}

func TestWizard_StepClamping(t *testing.T) {
	w := NewWizard(nil, 1)
	require.Equal(t, 1, w.Step())

	// Prev at the bottom stays put.
	w.Prev()
	require.Equal(t, 1, w.Step())

	for i := 0; i < 10; i++ {
		w.Next()
		require.GreaterOrEqual(t, w.Step(), 1)
		require.LessOrEqual(t, w.Step(), 5)
	}
	require.Equal(t, 5, w.Step())

	for i := 0; i < 10; i++ {
		w.Prev()
		require.GreaterOrEqual(t, w.Step(), 1)
		require.LessOrEqual(t, w.Step(), 5)
	}
	require.Equal(t, 1, w.Step())
}

func TestWizard_ValidationMessages(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*OnboardingData)
		field   string
		message string
	}{
		{"missing full name", func(d *OnboardingData) { d.FullName = "  " }, "fullName", "Full name is required"},
		{"missing email", func(d *OnboardingData) { d.Email = "" }, "email", "Email is required"},
		{"malformed email", func(d *OnboardingData) { d.Email = "not-an-email" }, "email", "Invalid email address"},
		{"missing goal", func(d *OnboardingData) { d.AutomationGoal = "" }, "automationGoal", "Automation goal is required"},
		{"missing workflow", func(d *OnboardingData) { d.DesiredWorkflow = " " }, "desiredWorkflow", "This field is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := validOnboardingData()
			tc.mutate(&data)

			errs := validateData(data)
			require.Len(t, errs, 1)
			require.Equal(t, tc.field, errs[0].Field)
			require.Equal(t, tc.message, errs[0].Message)
		})
	}

	require.Empty(t, validateData(validOnboardingData()))
}

func TestWizard_EmailPattern(t *testing.T) {
	valid := []string{"a@b.co", "ADA.LOVELACE+tag@Example.ORG", "x_y%z@sub.domain.io"}
	invalid := []string{"no-at.example.com", "a@b", "a@b.c", "a b@c.de", "@example.com"}

	for _, email := range valid {
		require.True(t, emailPattern.MatchString(email), email)
	}
	for _, email := range invalid {
		require.False(t, emailPattern.MatchString(email), email)
	}
}

func TestWizard_SubmitBlockedUntilValid(t *testing.T) {
	var requests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		writeJSON(t, w, http.StatusCreated, OnboardingForm{ID: 1, ProjectID: 1})
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)

	data := validOnboardingData()
	data.Email = "nope"
	wizard.SetData(data)

	_, err := wizard.Submit(context.Background())
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Equal(t, int32(0), requests.Load(), "invalid form must not reach the network")

	wizard.SetData(validOnboardingData())
	form, err := wizard.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, form)
	require.Equal(t, int32(1), requests.Load(), "valid submit issues exactly one request")
}

func TestWizard_SubmitPayloadShape(t *testing.T) {
	var got OnboardingData
	var fileName string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		require.NoError(t, json.Unmarshal([]byte(r.PostFormValue("form_data")), &got))
		if _, header, err := r.FormFile("file"); err == nil {
			fileName = header.Filename
		}
		writeJSON(t, w, http.StatusCreated, OnboardingForm{ID: 1, ProjectID: 1})
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	wizard.SetData(validOnboardingData())
	require.NoError(t, wizard.AttachFile("specs.pdf", []byte("%PDF-1.4")))

	_, err := wizard.Submit(context.Background())
	require.NoError(t, err)

	require.Equal(t, "Ada Lovelace", got.FullName)
	require.True(t, got.Tools.CRM)
	require.True(t, got.Triggers.UserAction)
	require.Equal(t, "specs.pdf", fileName)
}

func TestWizard_DoubleSubmitSingleRequest(t *testing.T) {
	var requests atomic.Int32
	release := make(chan struct{})
	started := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		close(started)
		<-release
		writeJSON(t, w, http.StatusCreated, OnboardingForm{ID: 1, ProjectID: 1})
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	wizard.SetData(validOnboardingData())

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = wizard.Submit(context.Background())
	}()

	<-started
	_, err := wizard.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	require.Equal(t, int32(1), requests.Load())
}

func TestWizard_FailurePreservesEnteredValues(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	wizard.SetData(validOnboardingData())
	wizard.Next()
	wizard.Next()

	_, err := wizard.Submit(context.Background())
	require.Error(t, err)
	require.True(t, ErrKind(err, KindServer))

	// The user's work survives a failed submit, and so does their position.
	require.Equal(t, validOnboardingData(), wizard.Data())
	require.Equal(t, 3, wizard.Step())

	// The guard is released; a retry goes through.
	_, err = wizard.Submit(context.Background())
	require.NotErrorIs(t, err, ErrSubmitInFlight)
}

func TestWizard_SuccessResetsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusCreated, OnboardingForm{ID: 7, ProjectID: 1})
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	wizard.SetData(validOnboardingData())
	for i := 0; i < 4; i++ {
		wizard.Next()
	}

	form, err := wizard.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(7), form.ID)

	require.Equal(t, 1, wizard.Step())
	require.Equal(t, OnboardingData{}, wizard.Data())
	require.True(t, wizard.Bypassed())
}

func TestWizard_AttachFileExtensions(t *testing.T) {
	w := NewWizard(nil, 1)

	require.NoError(t, w.AttachFile("doc.pdf", nil))
	require.NoError(t, w.AttachFile("doc.DOCX", nil))
	require.NoError(t, w.AttachFile("export.json", nil))

	require.ErrorIs(t, w.AttachFile("malware.exe", nil), ErrBadAttachment)
	require.ErrorIs(t, w.AttachFile("notes.txt", nil), ErrBadAttachment)
	require.ErrorIs(t, w.AttachFile("pdf", nil), ErrBadAttachment)
}

func TestWizard_Status404IsEmptyState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "No onboarding forms for this project"})
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	status, err := wizard.Status(context.Background())
	require.NoError(t, err, "404 means no submissions yet, not an error")
	require.False(t, status.Complete)
	require.False(t, wizard.Bypassed())
}

func TestWizard_StatusServerErrorIsRetryable(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	status, err := wizard.Status(context.Background())
	require.Error(t, err)
	require.False(t, status.Complete)
}

func TestWizard_StatusBypassAndReopen(t *testing.T) {
	submitted := validOnboardingData()
	blob, err := json.Marshal(submitted)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, []OnboardingForm{
			{ID: 1, ProjectID: 1, FormData: []byte(`{"fullName":"Old"}`)},
			{ID: 2, ProjectID: 1, FormData: blob},
		})
	})
	c, _ := newTestClient(t, mux)

	wizard := NewWizard(c, 1)
	status, err := wizard.Status(context.Background())
	require.NoError(t, err)
	require.True(t, status.Complete)
	require.Equal(t, int64(2), status.Latest.ID, "the last submission is authoritative")
	require.Equal(t, "Ada Lovelace", status.Data.FullName)
	require.True(t, wizard.Bypassed())

	wizard.Reopen()
	require.False(t, wizard.Bypassed())
	require.Equal(t, 1, wizard.Step())
}

func TestWizard_StatusTimeout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /projects/1/onboarding", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	})

	server := newServer(t, mux)
	store := &MemoryTokenStore{}
	// No client-level timeout so only the status check's own deadline applies.
	c := New(server.URL, store, WithHTTPClient(&http.Client{}))

	wizard := NewWizard(c, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := wizard.Status(ctx)
	require.Error(t, err)
	require.Less(t, time.Since(start), 5*time.Second, "the check must fail, not hang")
}
