package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireon/hireon/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedFixture(t *testing.T, db *DB) {
	t.Helper()

	company := models.Company{ID: "company-1", Name: "Acme", LogoURL: "https://acme.example/logo.png"}
	require.NoError(t, db.Create(&company).Error)

	companyID := company.ID
	posts := []models.JobPost{
		{ID: "post-1", CompanyID: &companyID, Title: "Backend Developer", Location: "Hà Nội"},
		{ID: "post-2", CompanyID: &companyID, Title: "Sales Executive", Location: "Hồ Chí Minh"},
		{ID: "post-3", Title: "Intern"},
	}
	require.NoError(t, db.Create(&posts).Error)

	skills := []models.Skill{
		{ID: 1, Name: "Python"},
		{ID: 2, Name: "SQL"},
		{ID: 3, Name: "Sales"},
	}
	require.NoError(t, db.Create(&skills).Error)

	postSkills := []models.JobPostSkill{
		{JobPostID: "post-1", SkillID: 1},
		{JobPostID: "post-1", SkillID: 2},
		{JobPostID: "post-2", SkillID: 3},
	}
	require.NoError(t, db.Create(&postSkills).Error)

	seeker := models.JobSeeker{ID: "seeker-1", FullName: "An Nguyen", Bio: "Backend dev"}
	require.NoError(t, db.Create(&seeker).Error)

	seekerSkills := []models.SeekerSkill{
		{JobSeekerID: "seeker-1", SkillID: 1, EndorsementCount: 4},
		{JobSeekerID: "seeker-1", SkillID: 2, EndorsementCount: 1},
	}
	require.NoError(t, db.Create(&seekerSkills).Error)
}

func TestAllJobPosts(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	posts, err := db.AllJobPosts(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	// Company is preloaded for posts that have one.
	var withCompany *models.JobPost
	for i := range posts {
		if posts[i].ID == "post-1" {
			withCompany = &posts[i]
		}
	}
	require.NotNil(t, withCompany)
	assert.Equal(t, "Acme", withCompany.CompanyName())
	assert.Equal(t, "https://acme.example/logo.png", withCompany.CompanyLogo())
}

func TestAllJobPostsLimit(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	posts, err := db.AllJobPosts(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestJobPostByID(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	post, err := db.JobPostByID(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Developer", post.Title)

	_, err = db.JobPostByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobPostSkillIDs(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	ids, err := db.JobPostSkillIDs(context.Background(), "post-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 2}, ids)
}

func TestJobPostSkillIDsBatch(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	batch, err := db.JobPostSkillIDsBatch(context.Background(), []string{"post-1", "post-2", "post-3"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{1, 2}, batch["post-1"])
	assert.ElementsMatch(t, []uint{3}, batch["post-2"])
	// Posts without skills still get an entry.
	assert.Empty(t, batch["post-3"])
	assert.NotNil(t, batch["post-3"])
}

func TestAllSkillNames(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	names, err := db.AllSkillNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{1: "Python", 2: "SQL", 3: "Sales"}, names)
}

func TestSeekerByID(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	seeker, err := db.SeekerByID(context.Background(), "seeker-1")
	require.NoError(t, err)
	assert.Equal(t, "An Nguyen", seeker.FullName)

	_, err = db.SeekerByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSeekerSkills(t *testing.T) {
	db := testDB(t)
	seedFixture(t, db)

	skills, err := db.SeekerSkills(context.Background(), "seeker-1")
	require.NoError(t, err)
	require.Len(t, skills, 2)
}

type staticSkillSource struct {
	names map[uint]string
	calls int
	err   error
}

func (s *staticSkillSource) AllSkillNames(context.Context) (map[uint]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.names, nil
}

func TestSkillNameCache(t *testing.T) {
	src := &staticSkillSource{names: map[uint]string{1: "Python"}}
	cache := NewSkillNameCache(src, time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }

	names, err := cache.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Python", names[1])
	assert.Equal(t, 1, src.calls)

	// Within the TTL the source is not consulted again.
	_, err = cache.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	// Past the TTL it refreshes.
	now = now.Add(2 * time.Minute)
	_, err = cache.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestSkillNameCacheServesStaleOnError(t *testing.T) {
	src := &staticSkillSource{names: map[uint]string{1: "Python"}}
	cache := NewSkillNameCache(src, time.Minute)

	now := time.Now()
	cache.now = func() time.Time { return now }

	_, err := cache.Names(context.Background())
	require.NoError(t, err)

	src.err = assert.AnError
	now = now.Add(2 * time.Minute)

	names, err := cache.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Python", names[1])
}
