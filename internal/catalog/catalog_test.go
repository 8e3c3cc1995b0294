package catalog

import (
	"context"
	"testing"

	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDefault(t *testing.T) *Catalog {
	t.Helper()
	r, err := resume.Default()
	require.NoError(t, err)
	c, err := Open(context.Background(), r)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCatalog_Scalars(t *testing.T) {
	c := openDefault(t)
	assert.Equal(t, "Hugo Cedano", c.Personal().Name)
	assert.Contains(t, c.About(), "Full-stack engineer")
}

func TestCatalog_Jobs(t *testing.T) {
	ctx := context.Background()
	c := openDefault(t)

	jobs, err := c.Jobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 10)
	assert.Equal(t, "goods-services", jobs[0].ID)
	assert.Equal(t, "freelance-2014", jobs[9].ID)
	require.Len(t, jobs[0].Description, 6)
	assert.Contains(t, jobs[0].Description[2], "RISKIE")

	current, err := c.CurrentJobs(ctx)
	require.NoError(t, err)
	require.Len(t, current, 2)
	assert.Equal(t, "goods-services", current[0].ID)
	assert.Equal(t, "frontier-tech", current[1].ID)
	for _, j := range current {
		assert.True(t, j.IsCurrent)
	}
}

func TestCatalog_Projects(t *testing.T) {
	ctx := context.Background()
	r := &resume.Resume{Projects: []resume.Project{
		{ID: "a", Name: "A", URL: "https://a.example", TechStack: []string{"Go", "SQL"}, Featured: true},
		{ID: "b", Name: "B", TechStack: []string{"Rust"}},
		{ID: "c", Name: "C", Featured: true},
	}}
	c, err := Open(ctx, r)
	require.NoError(t, err)
	defer c.Close()

	all, err := c.Projects(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Go", "SQL"}, all[0].TechStack)
	assert.True(t, all[1].ComingSoon())
	assert.Empty(t, all[2].TechStack)

	featured, err := c.Projects(ctx, true)
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, "a", featured[0].ID)
	assert.Equal(t, "c", featured[1].ID)
}

func TestCatalog_Skills(t *testing.T) {
	ctx := context.Background()
	c := openDefault(t)

	inOrder, err := c.Skills(ctx, SkillsInOrder)
	require.NoError(t, err)
	require.Len(t, inOrder, 7)
	assert.Equal(t, "frontend", inOrder[0].ID)
	assert.Equal(t, "marketing", inOrder[6].ID)
	assert.Equal(t, []string{"Strong communicator/conversationalist"}, inOrder[5].Skills)

	byProf, err := c.Skills(ctx, SkillsByProficiency)
	require.NoError(t, err)
	ids := make([]string, len(byProf))
	for i, s := range byProf {
		ids[i] = s.ID
	}
	// backend and soft-skills tie at 90 and keep data file order
	assert.Equal(t, []string{"frontend", "backend", "soft-skills", "data", "practices", "cloud-devops", "marketing"}, ids)
}

func TestCatalog_Education(t *testing.T) {
	c := openDefault(t)
	edu, err := c.Education(context.Background())
	require.NoError(t, err)
	require.Len(t, edu, 2)
	assert.Equal(t, "fiu", edu[0].ID)
	assert.Equal(t, 2012, edu[1].Year)
}

func TestCatalog_SnapshotRoundTrip(t *testing.T) {
	r, err := resume.Default()
	require.NoError(t, err)
	c, err := Open(context.Background(), r)
	require.NoError(t, err)
	defer c.Close()

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r, snap)
}

func TestCatalog_Empty(t *testing.T) {
	ctx := context.Background()
	c, err := Open(ctx, &resume.Resume{})
	require.NoError(t, err)
	defer c.Close()

	jobs, err := c.Jobs(ctx)
	require.NoError(t, err)
	assert.Empty(t, jobs)

	skills, err := c.Skills(ctx, SkillsByProficiency)
	require.NoError(t, err)
	assert.Empty(t, skills)
}
