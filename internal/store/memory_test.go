package store

import (
	"testing"

	"chirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateMapsConstraintErrors(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	assert.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrConflict)
	// A write against a missing referenced row behaves like a failed lookup.
	assert.ErrorIs(t, translate(gorm.ErrForeignKeyViolated), ErrNotFound)
}

func newUser(t *testing.T, s *Memory, email string) *models.User {
	t.Helper()
	u := &models.User{Username: email, Email: email, Password: "x", Profile: &models.Profile{}}
	require.NoError(t, s.CreateUserWithProfile(u))
	return u
}

func TestCreateUserWithProfileDuplicateEmail(t *testing.T) {
	s := NewMemory()
	newUser(t, s, "a@example.com")

	err := s.CreateUserWithProfile(&models.User{
		Username: "again", Email: "a@example.com", Password: "x",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreateLikeEnforcesUniquePair(t *testing.T) {
	s := NewMemory()
	u := newUser(t, s, "a@example.com")
	p := models.Post{Content: "hello", AuthorID: u.ID}
	require.NoError(t, s.CreatePost(&p))

	require.NoError(t, s.CreateLike(&models.Like{UserID: u.ID, PostID: p.ID}))
	err := s.CreateLike(&models.Like{UserID: u.ID, PostID: p.ID})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, s.DeleteLike(u.ID, p.ID))
	assert.NoError(t, s.CreateLike(&models.Like{UserID: u.ID, PostID: p.ID}))
}

func TestEngagementRequiresExistingPost(t *testing.T) {
	s := NewMemory()
	u := newUser(t, s, "a@example.com")

	err := s.CreateLike(&models.Like{UserID: u.ID, PostID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)
	err = s.CreateRepost(&models.Repost{UserID: u.ID, PostID: 9999})
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting the post takes its engagement rows with it, so a stale id
	// cannot be re-engaged either.
	p := models.Post{Content: "gone soon", AuthorID: u.ID}
	require.NoError(t, s.CreatePost(&p))
	require.NoError(t, s.CreateLike(&models.Like{UserID: u.ID, PostID: p.ID}))
	_, err = s.DeletePost(p.ID, u.ID, "gone soon")
	require.NoError(t, err)
	err = s.CreateLike(&models.Like{UserID: u.ID, PostID: p.ID})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestPostsHydration(t *testing.T) {
	s := NewMemory()
	author := newUser(t, s, "author@example.com")
	fan := newUser(t, s, "fan@example.com")

	parent := models.Post{Content: "parent", AuthorID: author.ID}
	require.NoError(t, s.CreatePost(&parent))
	reply := models.Post{Content: "reply", AuthorID: fan.ID, ParentID: &parent.ID}
	require.NoError(t, s.CreatePost(&reply))
	require.NoError(t, s.CreateLike(&models.Like{UserID: fan.ID, PostID: parent.ID}))
	require.NoError(t, s.CreateRepost(&models.Repost{UserID: fan.ID, PostID: parent.ID}))

	posts, err := s.LatestPosts(10, nil)
	require.NoError(t, err)
	// Replies are not top-level entries.
	require.Len(t, posts, 1)

	got := posts[0]
	assert.Equal(t, 1, got.ReplyCount)
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 1, got.RepostCount)
	require.NotNil(t, got.Author)
	assert.Equal(t, "author@example.com", got.Author.Email)
	require.NotNil(t, got.Author.Profile)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, "reply", got.Replies[0].Content)
	require.NotNil(t, got.Replies[0].Author)
}

func TestDeletePostRequiresFullMatch(t *testing.T) {
	s := NewMemory()
	author := newUser(t, s, "author@example.com")
	other := newUser(t, s, "other@example.com")
	p := models.Post{Content: "keep me", AuthorID: author.ID}
	require.NoError(t, s.CreatePost(&p))

	_, err := s.DeletePost(p.ID, other.ID, "keep me")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.DeletePost(p.ID, author.ID, "wrong content")
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := s.DeletePost(p.ID, author.ID, "keep me")
	require.NoError(t, err)
	assert.Equal(t, p.ID, deleted.ID)
	_, err = s.PostByID(p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowCounts(t *testing.T) {
	s := NewMemory()
	a := newUser(t, s, "a@example.com")
	b := newUser(t, s, "b@example.com")
	c := newUser(t, s, "c@example.com")

	require.NoError(t, s.CreateFollow(&models.Follow{FollowerID: a.ID, FollowingID: b.ID}))
	require.NoError(t, s.CreateFollow(&models.Follow{FollowerID: c.ID, FollowingID: b.ID}))

	following, followers, err := s.FollowCounts(b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), following)
	assert.Equal(t, int64(2), followers)

	ids, err := s.FollowingIDs(a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)
}
