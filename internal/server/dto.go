package server

import (
	"time"

	"github.com/hireon/hireon/internal/models"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type jobPostDTO struct {
	JobPostID           string     `json:"job_post_id"`
	Title               string     `json:"title"`
	CompanyName         string     `json:"company_name"`
	CompanyLogo         string     `json:"company_logo"`
	Location            string     `json:"location"`
	SalaryRange         string     `json:"salary_range"`
	JobType             string     `json:"job_type"`
	ExperienceLevel     string     `json:"experience_level"`
	PostedDate          *time.Time `json:"posted_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`
	Description         string     `json:"description"`
	Requirements        string     `json:"requirements"`
	Benefits            string     `json:"benefits"`
}

func newJobPostDTO(p *models.JobPost) jobPostDTO {
	return jobPostDTO{
		JobPostID:           p.ID,
		Title:               p.Title,
		CompanyName:         p.CompanyName(),
		CompanyLogo:         p.CompanyLogo(),
		Location:            p.Location,
		SalaryRange:         p.SalaryRange,
		JobType:             p.JobType,
		ExperienceLevel:     p.ExperienceLevel,
		PostedDate:          p.PostedDate,
		ApplicationDeadline: p.ApplicationDeadline,
		Description:         p.Description,
		Requirements:        p.Requirements,
		Benefits:            p.Benefits,
	}
}

type seekerSkillDTO struct {
	SkillID          uint `json:"skill_id"`
	EndorsementCount int  `json:"endorsement_count"`
}

type jobSeekerResponse struct {
	JobSeekerID string           `json:"job_seeker_id"`
	FullName    string           `json:"full_name"`
	Bio         string           `json:"bio"`
	Location    string           `json:"location"`
	Skills      []seekerSkillDTO `json:"skills"`
}

type chatRequest struct {
	Question string `json:"question"`
	NResults int    `json:"n_results"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Results any    `json:"results"`
}

type indexRebuildResponse struct {
	Status string `json:"status"`
	Stats  any    `json:"stats"`
}
