package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bytehub/bytehub/internal/config"
	"github.com/bytehub/bytehub/internal/models"
	"github.com/bytehub/bytehub/pkg/logger"
	"github.com/bytehub/bytehub/pkg/response"
)

const githubSyncPageSize = 100

type GitHubService struct {
	db     *gorm.DB
	access *AccessService
	client *resty.Client
}

func NewGitHubService(db *gorm.DB, cfg *config.GitHubConfig) *GitHubService {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}

	client := resty.New().
		SetBaseURL(apiBase).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/vnd.github+json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &GitHubService{
		db:     db,
		access: NewAccessService(db),
		client: client,
	}
}

// githubCommit is the subset of the GitHub commits API payload we keep.
type githubCommit struct {
	SHA    string `json:"sha"`
	URL    string `json:"html_url"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name  string    `json:"name"`
			Email string    `json:"email"`
			Date  time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// ParseRepoURL extracts the owner and repository name from a GitHub URL
// like https://github.com/owner/repo or git@github.com:owner/repo.git.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	if repoURL == "" {
		return "", "", fmt.Errorf("repository URL is empty")
	}

	path := repoURL
	if strings.HasPrefix(repoURL, "git@") {
		if i := strings.Index(repoURL, ":"); i != -1 {
			path = repoURL[i+1:]
		}
	} else {
		u, parseErr := url.Parse(repoURL)
		if parseErr != nil {
			return "", "", fmt.Errorf("invalid repository URL: %w", parseErr)
		}
		if u.Host != "" && u.Host != "github.com" && u.Host != "www.github.com" {
			return "", "", fmt.Errorf("not a github.com repository: %s", u.Host)
		}
		path = u.Path
	}

	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository URL must contain owner/repo")
	}
	return parts[0], parts[1], nil
}

// SyncCommits fetches the latest commits of the project's configured
// branch and upserts them. The call is synchronous: the caller sees
// GitHub errors directly.
func (s *GitHubService) SyncCommits(ctx context.Context, actor *models.User, projectID uint) (int, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return 0, response.NewNotFound("project not found")
	}

	if !CanEditProject(actor, &project) {
		return 0, response.NewForbidden("you cannot sync commits for this project")
	}

	if project.GithubRepoURL == "" {
		return 0, response.NewBadRequest("project has no GitHub repository configured")
	}

	owner, repo, err := ParseRepoURL(project.GithubRepoURL)
	if err != nil {
		return 0, response.NewBadRequest(err.Error())
	}

	branch := project.GithubBranch
	if branch == "" {
		branch = "main"
	}

	var commits []githubCommit
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sha":      branch,
			"per_page": fmt.Sprintf("%d", githubSyncPageSize),
		}).
		SetResult(&commits).
		Get(fmt.Sprintf("/repos/%s/%s/commits", owner, repo))
	if err != nil {
		return 0, response.NewServerError("failed to reach GitHub: " + err.Error())
	}
	if resp.StatusCode() == 404 {
		return 0, response.NewNotFound("repository or branch not found on GitHub")
	}
	if resp.IsError() {
		return 0, response.NewServerError(fmt.Sprintf("GitHub returned status %d", resp.StatusCode()))
	}

	synced := 0
	for _, gc := range commits {
		committedAt := gc.Commit.Author.Date
		record := models.GitCommit{
			ProjectID:   projectID,
			CommitHash:  gc.SHA,
			AuthorName:  gc.Commit.Author.Name,
			AuthorEmail: gc.Commit.Author.Email,
			Message:     gc.Commit.Message,
			CommittedAt: &committedAt,
			URL:         gc.URL,
		}

		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "project_id"}, {Name: "commit_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"author_name", "author_email", "message", "committed_at", "url", "updated_at",
			}),
		}).Create(&record).Error
		if err != nil {
			logger.Error().Err(err).Str("sha", gc.SHA).Uint("project_id", projectID).
				Msg("failed to upsert commit")
			continue
		}
		synced++
	}

	now := time.Now()
	if err := s.db.Model(&project).Update("github_last_synced_at", now).Error; err != nil {
		logger.Error().Err(err).Uint("project_id", projectID).Msg("failed to stamp sync time")
	}

	logger.Info().Uint("project_id", projectID).Int("synced", synced).
		Str("repo", owner+"/"+repo).Str("branch", branch).Msg("synced commits from GitHub")

	return synced, nil
}

// ListCommits returns a project's synced commits, newest first.
func (s *GitHubService) ListCommits(actor *models.User, projectID uint) ([]models.GitCommit, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		return nil, response.NewNotFound("project not found")
	}

	ok, err := s.access.CanAccess(actor, &project)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, response.NewForbidden("you do not have access to this project")
	}

	var commits []models.GitCommit
	err = s.db.Where("project_id = ?", projectID).
		Order("committed_at DESC").
		Find(&commits).Error
	return commits, err
}
