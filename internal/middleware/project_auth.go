package middleware

import (
	"strconv"

	"github.com/artofworkflows/platform/internal/database"
	apierrors "github.com/artofworkflows/platform/internal/errors"
	"github.com/artofworkflows/platform/internal/models"
	"github.com/gin-gonic/gin"
)

// ContextKeyProject is where RequireProjectAccess stores the loaded project.
const ContextKeyProject = "project"

// RequireProjectAccess checks that the project exists and belongs to the
// current user. Missing projects yield 404; another owner's yield 403.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		if project.UserID != userID {
			apierrors.Forbidden(c, "Not authorized to access this project")
			c.Abort()
			return
		}

		c.Set(ContextKeyProject, &project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess.
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}
