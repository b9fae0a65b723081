package timeline

import (
	"testing"
	"time"

	"chirp/internal/models"
	"chirp/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(min int) time.Time {
	return time.Date(2025, 6, 1, 12, min, 0, 0, time.UTC)
}

func TestMergeSortsByOwnKeyDescending(t *testing.T) {
	posts := []models.Post{
		{ID: 1, CreatedAt: at(10)},
		{ID: 2, CreatedAt: at(30)},
		{ID: 3, CreatedAt: at(5)},
		{ID: 4, CreatedAt: at(50)},
		{ID: 5, CreatedAt: at(20)},
	}
	old := models.Post{ID: 9, CreatedAt: at(0)}
	reposts := []models.Repost{
		// A repost of an old post sorts by the repost's own time.
		{ID: 11, PostID: 9, Post: &old, CreatedAt: at(40)},
		{ID: 12, PostID: 9, Post: &old, CreatedAt: at(15)},
		{ID: 13, PostID: 9, Post: &old, CreatedAt: at(25)},
	}

	entries := Merge(posts, reposts)
	require.Len(t, entries, 8)

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt.After(entries[i-1].CreatedAt),
			"entry %d is newer than entry %d", i, i-1)
	}

	assert.Equal(t, KindPost, entries[0].Type)
	assert.Equal(t, uint(4), entries[0].Post.ID)
	assert.Equal(t, KindRepost, entries[1].Type)
	assert.Equal(t, uint(9), entries[1].Post.ID)
}

func TestMergeTieKeepsPostsBeforeReposts(t *testing.T) {
	posts := []models.Post{{ID: 1, CreatedAt: at(10)}}
	p := models.Post{ID: 2, CreatedAt: at(1)}
	reposts := []models.Repost{{ID: 3, PostID: 2, Post: &p, CreatedAt: at(10)}}

	entries := Merge(posts, reposts)
	require.Len(t, entries, 2)
	assert.Equal(t, KindPost, entries[0].Type)
	assert.Equal(t, KindRepost, entries[1].Type)
}

func TestMergeSkipsRepostWithoutPost(t *testing.T) {
	reposts := []models.Repost{{ID: 1, CreatedAt: at(10)}}
	entries := Merge(nil, reposts)
	assert.Empty(t, entries)
}

func seedUser(t *testing.T, s *store.Memory, email string) *models.User {
	t.Helper()
	user := &models.User{
		Username: email,
		Email:    email,
		Password: "x",
		Profile:  &models.Profile{Bio: "hi"},
	}
	require.NoError(t, s.CreateUserWithProfile(user))
	return user
}

func TestFollowingFeedIncludesSelfAndFollowed(t *testing.T) {
	s := store.NewMemory()
	me := seedUser(t, s, "me@example.com")
	friend := seedUser(t, s, "friend@example.com")
	stranger := seedUser(t, s, "stranger@example.com")

	require.NoError(t, s.CreateFollow(&models.Follow{FollowerID: me.ID, FollowingID: friend.ID}))

	require.NoError(t, s.CreatePost(&models.Post{Content: "mine", AuthorID: me.ID, CreatedAt: at(1)}))
	require.NoError(t, s.CreatePost(&models.Post{Content: "friends", AuthorID: friend.ID, CreatedAt: at(2)}))
	strangersPost := models.Post{Content: "strangers", AuthorID: stranger.ID, CreatedAt: at(3)}
	require.NoError(t, s.CreatePost(&strangersPost))

	// The stranger's post can still surface when someone I follow reposts it.
	require.NoError(t, s.CreateRepost(&models.Repost{
		UserID: friend.ID, PostID: strangersPost.ID, CreatedAt: at(4),
	}))

	entries, err := NewAssembler(s).Following(me.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, KindRepost, entries[0].Type)
	assert.Equal(t, friend.ID, entries[0].RepostedBy.ID)
	assert.Equal(t, "strangers", entries[0].Post.Content)
	assert.Equal(t, "friends", entries[1].Post.Content)
	assert.Equal(t, "mine", entries[2].Post.Content)
}

func TestLatestMayExceedLimitAfterMerge(t *testing.T) {
	s := store.NewMemory()
	u := seedUser(t, s, "u@example.com")

	var firstPost models.Post
	for i := 0; i < 3; i++ {
		p := models.Post{Content: "p", AuthorID: u.ID, CreatedAt: at(i)}
		require.NoError(t, s.CreatePost(&p))
		if i == 0 {
			firstPost = p
		}
	}
	require.NoError(t, s.CreateRepost(&models.Repost{
		UserID: u.ID, PostID: firstPost.ID, CreatedAt: at(9),
	}))

	// Two independent bounded fetches: 3 posts + 1 repost with limit 3.
	entries, err := NewAssembler(s).Latest(3)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
