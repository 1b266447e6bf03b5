package repository

import (
	"github.com/artofworkflows/platform/internal/models"
	"github.com/artofworkflows/platform/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64) (*models.Project, error)

	// ListByUser retrieves a page of a user's projects, oldest first
	ListByUser(userID uint64, params utils.PaginationParams) ([]models.Project, error)

	// CountByUser counts a user's projects
	CountByUser(userID uint64) (int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete soft deletes a project
	Delete(id uint64) error

	// CreateOnboardingForm stores a new onboarding submission
	CreateOnboardingForm(form *models.OnboardingForm) error

	// UpdateOnboardingForm persists extraction results on a submission
	UpdateOnboardingForm(form *models.OnboardingForm) error

	// ListOnboardingForms returns a project's submissions oldest first,
	// so the last element is the authoritative latest submission
	ListOnboardingForms(projectID uint64) ([]models.OnboardingForm, error)

	// CreateProposal stores a proposal as the next version for the project
	CreateProposal(proposal *models.Proposal) error

	// ListProposals returns a project's proposals newest version first
	ListProposals(projectID uint64) ([]models.Proposal, error)
}

// BlogRepository defines the interface for blog post and comment data access
type BlogRepository interface {
	// CreatePost creates a new blog post
	CreatePost(post *models.BlogPost) error

	// FindPostByID finds a blog post by ID
	FindPostByID(id uint64) (*models.BlogPost, error)

	// ListPosts retrieves blog posts newest first
	ListPosts() ([]models.BlogPost, error)

	// UpdatePost updates a blog post
	UpdatePost(post *models.BlogPost) error

	// DeletePost soft deletes a blog post and its comments
	DeletePost(id uint64) error

	// CreateComment creates a comment or reply
	CreateComment(comment *models.BlogComment) error

	// FindCommentByID finds a comment by ID
	FindCommentByID(id uint64) (*models.BlogComment, error)

	// ListCommentsByPost returns a post's comments oldest first with
	// authors preloaded
	ListCommentsByPost(postID uint64) ([]models.BlogComment, error)

	// DeleteComment deletes a comment; deleting a root comment also
	// removes its replies
	DeleteComment(id uint64) error
}

// LeadRepository defines the interface for lead data access
type LeadRepository interface {
	// Create stores a new lead submission
	Create(lead *models.Lead) error

	// FindByID finds a lead by ID
	FindByID(id uint64) (*models.Lead, error)

	// List retrieves a page of leads, newest first
	List(params utils.PaginationParams) ([]models.Lead, error)
}
