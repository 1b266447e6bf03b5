package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artofworkflows/platform/internal/database"
	"github.com/artofworkflows/platform/internal/dto"
	"github.com/artofworkflows/platform/internal/middleware"
	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/repository"
	"github.com/artofworkflows/platform/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type projectTestEnv struct {
	db             *gorm.DB
	router         *gin.Engine
	authService    *services.AuthService
	projectService *services.ProjectService
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.OnboardingForm{},
		&models.Proposal{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	authService := services.NewAuthService(userRepo, "test-secret")
	projectService := services.NewProjectService(projectRepo, nil)

	fileService, err := services.NewFileService(t.TempDir())
	require.NoError(t, err)

	handler := NewProjectHandler(projectService, fileService)

	r := gin.New()
	projects := r.Group("/api/v1/projects")
	projects.Use(middleware.RequireAuth(authService))
	{
		projects.POST("", handler.CreateProject)
		projects.GET("", handler.ListProjects)
		projects.GET("/:id", middleware.RequireProjectAccess(), handler.GetProject)
		projects.PUT("/:id", middleware.RequireProjectAccess(), handler.UpdateProject)
		projects.DELETE("/:id", middleware.RequireProjectAccess(), handler.DeleteProject)
		projects.POST("/:id/onboarding", middleware.RequireProjectAccess(), handler.SubmitOnboarding)
		projects.GET("/:id/onboarding", middleware.RequireProjectAccess(), handler.ListOnboarding)
		projects.POST("/:id/proposals", middleware.RequireProjectAccess(), handler.CreateProposal)
		projects.GET("/:id/proposals", middleware.RequireProjectAccess(), handler.ListProposals)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestEnv{
		db:             db,
		router:         r,
		authService:    authService,
		projectService: projectService,
	}
}

func (env projectTestEnv) createUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)

	token, err := env.authService.IssueToken(user)
	require.NoError(t, err)
	return user, token
}

func (env projectTestEnv) request(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env projectTestEnv) submitOnboarding(t *testing.T, projectID uint64, token, formData, fileName string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("form_data", formData))
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/onboarding", projectID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestProjectHandler_Create(t *testing.T) {
	env := setupProjectTestEnv(t)
	_, token := env.createUser(t, "owner@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"name":        "Project 1",
		"description": "First automation",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	require.Equal(t, "Project 1", project.Name)
	require.Equal(t, models.ProjectStatusNew, project.Status)

	w = env.request(t, http.MethodPost, "/api/v1/projects", token, map[string]string{
		"name": "   ",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_OwnershipScoping(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner, ownerToken := env.createUser(t, "owner@example.com")
	_, otherToken := env.createUser(t, "other@example.com")

	project, err := env.projectService.CreateProject(owner.ID, services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)

	// Owner sees it, another user gets 403, a missing ID gets 404.
	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", project.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", project.ID), otherToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/projects/99999", ownerToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_ListScopedToOwner(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner, ownerToken := env.createUser(t, "owner@example.com")
	other, _ := env.createUser(t, "other@example.com")

	_, err := env.projectService.CreateProject(owner.ID, services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)
	_, err = env.projectService.CreateProject(other.ID, services.CreateProjectInput{Name: "Theirs"})
	require.NoError(t, err)

	w := env.request(t, http.MethodGet, "/api/v1/projects", ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 1)
	require.Equal(t, "Mine", projects[0].Name)
}

func TestProjectHandler_SubmitOnboarding(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com")

	project, err := env.projectService.CreateProject(owner.ID, services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)

	// No submissions yet reads as 404.
	w := env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/onboarding", project.ID), token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	formData := `{"fullName":"Ada Lovelace","email":"ada@example.com","automationGoal":"Sync leads","desiredWorkflow":"HubSpot to Postgres"}`
	w = env.submitOnboarding(t, project.ID, token, formData, "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var form dto.OnboardingFormDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &form))
	require.Equal(t, models.ProcessingStatusPending, form.ProcessingStatus)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/onboarding", project.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var forms []dto.OnboardingFormDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forms))
	require.Len(t, forms, 1)
}

func TestProjectHandler_SubmitOnboarding_InvalidInput(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com")

	project, err := env.projectService.CreateProject(owner.ID, services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)

	w := env.submitOnboarding(t, project.ID, token, "not-json{", "", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.submitOnboarding(t, project.ID, token, `{"fullName":"Ada"}`, "malware.exe", []byte("nope"))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_Proposals(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com")

	project, err := env.projectService.CreateProject(owner.ID, services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)

	// Generation without any onboarding submission is a 400.
	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/proposals", project.ID), token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/proposals", project.ID), token, map[string]string{
		"content": "# Proposal v1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var first dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Equal(t, 1, first.Version)

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/proposals", project.ID), token, map[string]string{
		"content": "# Proposal v2",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var second dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Equal(t, 2, second.Version)

	// Listing comes back newest version first.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d/proposals", project.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var proposals []dto.ProposalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &proposals))
	require.Len(t, proposals, 2)
	require.Equal(t, 2, proposals[0].Version)
	require.Equal(t, "# Proposal v2", proposals[0].Content)
}

func TestProjectHandler_GenerateProposal_NoAIService(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner, token := env.createUser(t, "owner@example.com")

	project, err := env.projectService.CreateProject(owner.ID, services.CreateProjectInput{Name: "Mine"})
	require.NoError(t, err)

	formData := `{"fullName":"Ada Lovelace","email":"ada@example.com","automationGoal":"Sync leads","desiredWorkflow":"HubSpot to Postgres"}`
	w := env.submitOnboarding(t, project.ID, token, formData, "", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/proposals", project.ID), token, map[string]string{})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
