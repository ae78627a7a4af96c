package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bytehub/bytehub/internal/config"
	"github.com/bytehub/bytehub/internal/services"
	"github.com/bytehub/bytehub/pkg/response"
)

type GitHubHandler struct {
	githubService *services.GitHubService
}

func NewGitHubHandler(db *gorm.DB, cfg *config.Config) *GitHubHandler {
	return &GitHubHandler{
		githubService: services.NewGitHubService(db, &cfg.GitHub),
	}
}

// Sync pulls the latest commits from the project's GitHub repository
// POST /api/project/:id/sync-commits
func (h *GitHubHandler) Sync(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	synced, err := h.githubService.SyncCommits(c.Request.Context(), currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"synced": synced})
}

// ListCommits returns the project's synced commits
// GET /api/project/:id/commits
func (h *GitHubHandler) ListCommits(c *gin.Context) {
	projectID, ok := pathID(c, "id")
	if !ok {
		return
	}

	commits, err := h.githubService.ListCommits(currentUser(c), projectID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, commits)
}
