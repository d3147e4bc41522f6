package service

import (
	"context"

	"voice-todoist-be/internal/dto"
	"voice-todoist-be/internal/pkg/logger"
	"voice-todoist-be/internal/repository/memory"
	"voice-todoist-be/pkg/events"
	"voice-todoist-be/pkg/match"
	"voice-todoist-be/pkg/todoist"
)

type IProjectService interface {
	List(ctx context.Context, refresh bool) ([]dto.ProjectDTO, error)
	Find(ctx context.Context, req *dto.FindProjectRequest) (*dto.FindProjectResponse, error)
	Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectDTO, error)

	// Collaborator surface used by the conversation engine.
	Snapshot(ctx context.Context) ([]match.Project, error)
	CreateProject(ctx context.Context, name string) (match.Project, error)
}

// EventPublisher is the optional NATS fanout. A nil publisher disables it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type projectService struct {
	client     *todoist.Client
	cache      *memory.ProjectCache
	natsPub    EventPublisher
	sysLogger  logger.ILogger
	maxResults int
}

func NewProjectService(
	client *todoist.Client,
	cache *memory.ProjectCache,
	natsPub EventPublisher,
	sysLogger logger.ILogger,
	maxResults int,
) IProjectService {
	if maxResults <= 0 {
		maxResults = match.DefaultMaxResults
	}
	return &projectService{
		client:     client,
		cache:      cache,
		natsPub:    natsPub,
		sysLogger:  sysLogger,
		maxResults: maxResults,
	}
}

func (s *projectService) List(ctx context.Context, refresh bool) ([]dto.ProjectDTO, error) {
	if refresh {
		s.cache.Invalidate()
	}
	projects, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return dto.ProjectsToDTO(projects), nil
}

func (s *projectService) Find(ctx context.Context, req *dto.FindProjectRequest) (*dto.FindProjectResponse, error) {
	projects, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	outcome := match.Rank(req.Query, projects, maxResults)
	res := &dto.FindProjectResponse{Kind: string(outcome.Kind)}
	for _, c := range outcome.Candidates {
		res.Candidates = append(res.Candidates, dto.CandidateToDTO(c))
	}
	return res, nil
}

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest) (*dto.ProjectDTO, error) {
	project, err := s.CreateProject(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	res := dto.ProjectToDTO(project)
	return &res, nil
}

// Snapshot serves the cached project list, fetching from Todoist on a
// cold or invalidated cache.
func (s *projectService) Snapshot(ctx context.Context) ([]match.Project, error) {
	if projects, ok := s.cache.Get(); ok {
		return projects, nil
	}

	projects, err := s.client.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(projects)
	s.sysLogger.Debug("project_service", "refreshed project snapshot", map[string]interface{}{
		"count": len(projects),
	})
	return projects, nil
}

func (s *projectService) CreateProject(ctx context.Context, name string) (match.Project, error) {
	project, err := s.client.CreateProject(ctx, name)
	if err != nil {
		return match.Project{}, err
	}
	s.cache.Invalidate()
	s.sysLogger.Info("project_service", "created project", map[string]interface{}{
		"project_id": project.ID,
		"name":       project.Name,
	})

	if s.natsPub != nil {
		if err := s.natsPub.Publish(ctx, events.ProjectCreated(project.ID, project.Name)); err != nil {
			s.sysLogger.Warn("project_service", "failed to publish project event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return project, nil
}
