// Package models defines the core data structures for Hireon.
package models

import (
	"time"
)

// Company represents an employer that owns job postings.
type Company struct {
	ID          string `gorm:"primaryKey;size:64" json:"company_id"`
	Name        string `gorm:"size:255;index" json:"name"`
	LogoURL     string `gorm:"size:500" json:"logo_url"`
	Website     string `gorm:"size:500" json:"website"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Company) TableName() string {
	return "companies"
}

// JobPost represents a single job posting.
type JobPost struct {
	ID        string   `gorm:"primaryKey;size:64" json:"job_post_id"`
	CompanyID *string  `gorm:"size:64;index" json:"company_id,omitempty"`
	Company   *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	Title           string `gorm:"size:255;index" json:"title"`
	Description     string `gorm:"type:text" json:"description"`
	Requirements    string `gorm:"type:text" json:"requirements"`
	Benefits        string `gorm:"type:text" json:"benefits"`
	Location        string `gorm:"size:255;index" json:"location"`
	SalaryRange     string `gorm:"size:100" json:"salary_range"`
	JobType         string `gorm:"size:50" json:"job_type"`
	ExperienceLevel string `gorm:"size:50" json:"experience_level"`

	PostedDate          *time.Time `json:"posted_date,omitempty"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (JobPost) TableName() string {
	return "job_posts"
}

// CompanyName returns the owning company name, or "" when the join is absent.
func (p *JobPost) CompanyName() string {
	if p.Company == nil {
		return ""
	}
	return p.Company.Name
}

// CompanyLogo returns the owning company logo URL, or "" when the join is absent.
func (p *JobPost) CompanyLogo() string {
	if p.Company == nil {
		return ""
	}
	return p.Company.LogoURL
}

// Snippet returns the first n characters of the description.
func (p *JobPost) Snippet(n int) string {
	runes := []rune(p.Description)
	if len(runes) <= n {
		return p.Description
	}
	return string(runes[:n])
}

// JobPostSkill links a job posting to a required skill.
type JobPostSkill struct {
	JobPostID string `gorm:"primaryKey;size:64" json:"job_post_id"`
	SkillID   uint   `gorm:"primaryKey" json:"skill_id"`
}

// TableName specifies the table name for GORM.
func (JobPostSkill) TableName() string {
	return "job_post_skills"
}

// JobSeeker represents a candidate profile.
type JobSeeker struct {
	ID       string `gorm:"primaryKey;size:64" json:"job_seeker_id"`
	FullName string `gorm:"size:255" json:"full_name"`
	Bio      string `gorm:"type:text" json:"bio"`
	Location string `gorm:"size:255" json:"location"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (JobSeeker) TableName() string {
	return "job_seekers"
}

// Skill is immutable reference data identifying a named skill.
type Skill struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;uniqueIndex" json:"name"`
}

// TableName specifies the table name for GORM.
func (Skill) TableName() string {
	return "skills"
}

// SeekerSkill links a job seeker to a skill with an endorsement count.
type SeekerSkill struct {
	JobSeekerID      string `gorm:"primaryKey;size:64" json:"job_seeker_id"`
	SkillID          uint   `gorm:"primaryKey" json:"skill_id"`
	EndorsementCount int    `gorm:"default:0" json:"endorsement_count"`
}

// TableName specifies the table name for GORM.
func (SeekerSkill) TableName() string {
	return "user_skills"
}
