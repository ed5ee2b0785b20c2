package vector

import (
	"fmt"
	"strings"

	"github.com/hireon/hireon/internal/models"
)

// FormatJob renders a job posting into the text block that gets embedded.
// Long descriptions and requirements are truncated so one field cannot
// dominate the vector.
func FormatJob(post *models.JobPost, skillNames []string) string {
	var parts []string

	title := post.Title
	if title == "" {
		title = "Unknown"
	}
	parts = append(parts, fmt.Sprintf("Tiêu đề: %s", title))

	if company := post.CompanyName(); company != "" {
		parts = append(parts, fmt.Sprintf("Công ty: %s", company))
	}
	if post.Location != "" {
		parts = append(parts, fmt.Sprintf("Địa điểm: %s", post.Location))
	}
	if post.SalaryRange != "" {
		parts = append(parts, fmt.Sprintf("Mức lương: %s", post.SalaryRange))
	}
	if len(skillNames) > 0 {
		parts = append(parts, fmt.Sprintf("Kỹ năng yêu cầu: %s", strings.Join(skillNames, ", ")))
	}
	if post.Description != "" {
		parts = append(parts, fmt.Sprintf("Mô tả: %s", truncateRunes(post.Description, 500)))
	}
	if post.Requirements != "" {
		parts = append(parts, fmt.Sprintf("Yêu cầu: %s", truncateRunes(post.Requirements, 300)))
	}

	return strings.Join(parts, "\n")
}

// JobMetadata extracts the per-document metadata stored beside the embedding.
func JobMetadata(post *models.JobPost, skillNames []string) map[string]string {
	return map[string]string{
		"job_id":   post.ID,
		"title":    post.Title,
		"company":  post.CompanyName(),
		"location": post.Location,
		"salary":   post.SalaryRange,
		"skills":   strings.Join(skillNames, ","),
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
