package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numa/internal/domain"
	"numa/internal/repos"
	"numa/internal/services"
)

func seedPosts(t *testing.T, svc *services.ForumService) {
	t.Helper()
	for _, p := range []domain.ForumPost{
		{Title: "Amber Nedir?", Content: "Sıcak ve reçineli.", Tags: domain.StringList{"Amber", "rehber"}, IsPublished: true},
		{Title: "Misk Notası", Content: "Temiz ve pudralı.", Tags: domain.StringList{"misk"}, IsPublished: true},
		{Title: "Taslak", Content: "Henüz hazır değil.", IsPublished: false},
	} {
		_, err := svc.Create(p)
		require.NoError(t, err)
	}
}

func TestForum_PublishedAndTagFilter(t *testing.T) {
	svc := services.NewForumService(repos.NewForumRepo(memdb(t)), services.FailFast)
	seedPosts(t, svc)

	res, err := svc.Published("")
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.False(t, res.Stale)

	res, _ = svc.Published("AMBER")
	require.Len(t, res.Items, 1)
	assert.Equal(t, "amber-nedir", res.Items[0].Slug)

	_, _, err = svc.Read("taslak")
	assert.ErrorIs(t, err, repos.ErrNotFound, "drafts are not readable")

	p, stale, err := svc.Read("misk-notasi")
	require.NoError(t, err)
	assert.False(t, stale)
	assert.Equal(t, 1, p.ViewCount)
}

func TestForum_ShadowFallback(t *testing.T) {
	db := memdb(t)
	svc := services.NewForumService(repos.NewForumRepo(db), services.UseFallback)
	seedPosts(t, svc)

	_, err := svc.Published("")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	res, err := svc.Published("misk")
	require.NoError(t, err)
	assert.True(t, res.Stale)
	require.Len(t, res.Items, 1)

	p, stale, err := svc.Read("amber-nedir")
	require.NoError(t, err)
	assert.True(t, stale)
	assert.Equal(t, "Amber Nedir?", p.Title)

	_, _, err = svc.Read("yok")
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestForum_FailFastWhenStoreDown(t *testing.T) {
	db := memdb(t)
	svc := services.NewForumService(repos.NewForumRepo(db), services.FailFast)
	require.NoError(t, db.Close())
	_, err := svc.Published("")
	assert.True(t, repos.IsRemote(err))
}

func TestForum_SlugsStayUnique(t *testing.T) {
	svc := services.NewForumService(repos.NewForumRepo(memdb(t)), services.FailFast)
	a, err := svc.Create(domain.ForumPost{Title: "Oud", Content: "x"})
	require.NoError(t, err)
	b, err := svc.Create(domain.ForumPost{Title: "Oud", Content: "y"})
	require.NoError(t, err)
	assert.Equal(t, "oud", a.Slug)
	assert.Equal(t, "oud-2", b.Slug)

	b.Slug = "oud"
	b, err = svc.Update(b)
	require.NoError(t, err)
	assert.Equal(t, "oud-3", b.Slug, "renaming onto a taken slug is uniquified")

	_, err = svc.Create(domain.ForumPost{Title: "", Content: "x"})
	assert.ErrorIs(t, err, services.ErrValidation)
}
