package dto

import "voice-todoist-be/pkg/match"

type ProjectDTO struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	ParentId string `json:"parent_id,omitempty"`
	Favorite bool   `json:"favorite,omitempty"`
}

type FindProjectRequest struct {
	Query      string `json:"query" validate:"required"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=20"`
}

type FindProjectResponse struct {
	Kind       string         `json:"kind"`
	Candidates []CandidateDTO `json:"candidates,omitempty"`
}

type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

func ProjectToDTO(p match.Project) ProjectDTO {
	return ProjectDTO{
		Id:       p.ID,
		Name:     p.Name,
		Color:    p.Color,
		ParentId: p.ParentID,
		Favorite: p.Favorite,
	}
}

func ProjectsToDTO(projects []match.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ProjectToDTO(p)
	}
	return out
}
