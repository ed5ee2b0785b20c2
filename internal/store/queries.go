package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/hireon/hireon/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// AllJobPosts returns up to limit job posts with their company joined.
func (db *DB) AllJobPosts(ctx context.Context, limit int) ([]models.JobPost, error) {
	if limit <= 0 {
		limit = 100
	}
	var posts []models.JobPost
	err := db.WithContext(ctx).
		Preload("Company").
		Limit(limit).
		Order("created_at").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("fetch job posts: %w", err)
	}
	return posts, nil
}

// JobPostByID returns a single job post with its company, or ErrNotFound.
func (db *DB) JobPostByID(ctx context.Context, id string) (*models.JobPost, error) {
	var post models.JobPost
	err := db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch job post %s: %w", id, err)
	}
	return &post, nil
}

// JobPostSkillIDs returns the skill ids required by one job post.
func (db *DB) JobPostSkillIDs(ctx context.Context, jobPostID string) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&models.JobPostSkill{}).
		Where("job_post_id = ?", jobPostID).
		Pluck("skill_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("fetch job post skills: %w", err)
	}
	return ids, nil
}

// JobPostSkillIDsBatch returns skill ids for many job posts in one query.
// Posts without skills map to an empty slice so callers can range safely.
func (db *DB) JobPostSkillIDsBatch(ctx context.Context, jobPostIDs []string) (map[string][]uint, error) {
	result := make(map[string][]uint, len(jobPostIDs))
	if len(jobPostIDs) == 0 {
		return result, nil
	}

	var rows []models.JobPostSkill
	err := db.WithContext(ctx).
		Where("job_post_id IN ?", jobPostIDs).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("batch fetch job post skills: %w", err)
	}

	for _, row := range rows {
		result[row.JobPostID] = append(result[row.JobPostID], row.SkillID)
	}
	for _, id := range jobPostIDs {
		if _, ok := result[id]; !ok {
			result[id] = []uint{}
		}
	}
	return result, nil
}

// AllSkillNames returns the full skill id to name mapping.
func (db *DB) AllSkillNames(ctx context.Context) (map[uint]string, error) {
	var skills []models.Skill
	if err := db.WithContext(ctx).Find(&skills).Error; err != nil {
		return nil, fmt.Errorf("fetch skills: %w", err)
	}
	names := make(map[uint]string, len(skills))
	for _, s := range skills {
		names[s.ID] = s.Name
	}
	return names, nil
}

// SeekerByID returns a job seeker profile, or ErrNotFound.
func (db *DB) SeekerByID(ctx context.Context, id string) (*models.JobSeeker, error) {
	var seeker models.JobSeeker
	err := db.WithContext(ctx).Where("id = ?", id).First(&seeker).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch job seeker %s: %w", id, err)
	}
	return &seeker, nil
}

// SeekerSkills returns the seeker's skills with endorsement counts.
func (db *DB) SeekerSkills(ctx context.Context, seekerID string) ([]models.SeekerSkill, error) {
	var skills []models.SeekerSkill
	err := db.WithContext(ctx).
		Where("job_seeker_id = ?", seekerID).
		Find(&skills).Error
	if err != nil {
		return nil, fmt.Errorf("fetch seeker skills: %w", err)
	}
	return skills, nil
}
