package store

import (
	"sort"
	"sync"
	"time"

	"chirp/internal/models"
)

// Memory is an in-process Store used by tests in place of Postgres. It
// enforces the same uniqueness rules the database indexes do.
type Memory struct {
	mu       sync.Mutex
	users    map[uint]models.User
	profiles map[uint]models.Profile // keyed by user id
	posts    map[uint]models.Post
	likes    map[uint]models.Like
	reposts  map[uint]models.Repost
	follows  map[uint]models.Follow
	lastID   uint
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[uint]models.User),
		profiles: make(map[uint]models.Profile),
		posts:    make(map[uint]models.Post),
		likes:    make(map[uint]models.Like),
		reposts:  make(map[uint]models.Repost),
		follows:  make(map[uint]models.Follow),
	}
}

func (s *Memory) nextID() uint {
	s.lastID++
	return s.lastID
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}

func (s *Memory) CreateUserWithProfile(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrConflict
		}
	}

	user.ID = s.nextID()
	user.CreatedAt = stamp(user.CreatedAt)
	user.UpdatedAt = user.CreatedAt
	if user.Profile != nil {
		user.Profile.ID = s.nextID()
		user.Profile.UserID = user.ID
		user.Profile.CreatedAt = user.CreatedAt
		user.Profile.UpdatedAt = user.CreatedAt
		s.profiles[user.ID] = *user.Profile
	}

	stored := *user
	stored.Profile = nil
	s.users[user.ID] = stored
	return nil
}

func (s *Memory) userCopy(id uint, withProfile bool) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	user := u
	if withProfile {
		if p, ok := s.profiles[id]; ok {
			profile := p
			user.Profile = &profile
		}
	}
	return &user
}

func (s *Memory) UserByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := s.userCopy(id, false)
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *Memory) UserByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, u := range s.users {
		if u.Email == email {
			return s.userCopy(id, false), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) ProfileByUserID(userID uint) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	profile := p
	profile.User = s.userCopy(userID, false)
	return &profile, nil
}

func (s *Memory) UpdateProfile(userID uint, username, bio, imageURL string) (*models.Profile, error) {
	s.mu.Lock()
	p, ok := s.profiles[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if username != "" {
		u := s.users[userID]
		u.Username = username
		s.users[userID] = u
	}
	p.Bio = bio
	p.ProfileImageURL = imageURL
	p.UpdatedAt = time.Now()
	s.profiles[userID] = p
	s.mu.Unlock()
	return s.ProfileByUserID(userID)
}

func (s *Memory) CreatePost(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[post.AuthorID]; !ok {
		return ErrNotFound
	}
	if post.ParentID != nil {
		if _, ok := s.posts[*post.ParentID]; !ok {
			return ErrNotFound
		}
	}

	post.ID = s.nextID()
	post.CreatedAt = stamp(post.CreatedAt)
	post.UpdatedAt = post.CreatedAt
	stored := *post
	stored.Author = nil
	s.posts[post.ID] = stored

	post.Author = s.userCopy(post.AuthorID, true)
	return nil
}

func (s *Memory) postLikes(postID uint) []models.Like {
	var likes []models.Like
	for _, l := range s.likes {
		if l.PostID == postID {
			likes = append(likes, l)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID < likes[j].ID })
	return likes
}

func (s *Memory) postReplies(postID uint) []models.Post {
	var replies []models.Post
	for _, p := range s.posts {
		if p.ParentID != nil && *p.ParentID == postID {
			reply := p
			reply.Author = s.userCopy(p.AuthorID, true)
			reply.Likes = s.postLikes(p.ID)
			replies = append(replies, reply)
		}
	}
	sort.Slice(replies, func(i, j int) bool { return replies[i].ID < replies[j].ID })
	return replies
}

func (s *Memory) hydratePost(p models.Post) models.Post {
	post := p
	post.Author = s.userCopy(p.AuthorID, true)
	post.Likes = s.postLikes(p.ID)
	post.Replies = s.postReplies(p.ID)
	post.ReplyCount = len(post.Replies)
	post.LikeCount = len(post.Likes)
	for _, r := range s.reposts {
		if r.PostID == p.ID {
			post.RepostCount++
		}
	}
	return post
}

func (s *Memory) PostByID(id uint) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	post := p
	post.Author = s.userCopy(p.AuthorID, true)
	return &post, nil
}

func (s *Memory) PostsByAuthor(authorID uint, limit int) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []models.Post
	for _, p := range s.posts {
		if p.AuthorID == authorID {
			post := p
			post.Author = s.userCopy(p.AuthorID, false)
			posts = append(posts, post)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *Memory) DeletePost(postID, authorID uint, content string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok || p.AuthorID != authorID || p.Content != content {
		return nil, ErrNotFound
	}
	delete(s.posts, postID)
	// Mirror the DB's cascading foreign keys.
	for id, l := range s.likes {
		if l.PostID == postID {
			delete(s.likes, id)
		}
	}
	for id, r := range s.reposts {
		if r.PostID == postID {
			delete(s.reposts, id)
		}
	}
	for id, child := range s.posts {
		if child.ParentID != nil && *child.ParentID == postID {
			delete(s.posts, id)
		}
	}
	post := p
	return &post, nil
}

func inSet(id uint, ids []uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *Memory) LatestPosts(limit int, authorIDs []uint) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []models.Post
	for _, p := range s.posts {
		if p.ParentID != nil {
			continue
		}
		if authorIDs != nil && !inSet(p.AuthorID, authorIDs) {
			continue
		}
		posts = append(posts, s.hydratePost(p))
	}
	// Insertion order first so the time sort has a deterministic tie-break.
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *Memory) LatestReposts(limit int, userIDs []uint) ([]models.Repost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reposts []models.Repost
	for _, r := range s.reposts {
		if userIDs != nil && !inSet(r.UserID, userIDs) {
			continue
		}
		reposts = append(reposts, s.hydrateRepost(r))
	}
	sort.Slice(reposts, func(i, j int) bool { return reposts[i].ID < reposts[j].ID })
	sort.SliceStable(reposts, func(i, j int) bool {
		return reposts[i].CreatedAt.After(reposts[j].CreatedAt)
	})
	if len(reposts) > limit {
		reposts = reposts[:limit]
	}
	return reposts, nil
}

func (s *Memory) hydrateRepost(r models.Repost) models.Repost {
	repost := r
	repost.User = s.userCopy(r.UserID, true)
	if p, ok := s.posts[r.PostID]; ok {
		post := s.hydratePost(p)
		repost.Post = &post
	}
	return repost
}

func (s *Memory) LikeByUserAndPost(userID, postID uint) (*models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			like := l
			return &like, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateLike(like *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[like.PostID]; !ok {
		return ErrNotFound
	}
	for _, l := range s.likes {
		if l.UserID == like.UserID && l.PostID == like.PostID {
			return ErrConflict
		}
	}
	like.ID = s.nextID()
	like.CreatedAt = stamp(like.CreatedAt)
	s.likes[like.ID] = *like
	return nil
}

func (s *Memory) DeleteLike(userID, postID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range s.likes {
		if l.UserID == userID && l.PostID == postID {
			delete(s.likes, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) RepostByUserAndPost(userID, postID uint) (*models.Repost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reposts {
		if r.UserID == userID && r.PostID == postID {
			repost := r
			return &repost, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Memory) CreateRepost(repost *models.Repost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[repost.PostID]; !ok {
		return ErrNotFound
	}
	for _, r := range s.reposts {
		if r.UserID == repost.UserID && r.PostID == repost.PostID {
			return ErrConflict
		}
	}
	repost.ID = s.nextID()
	repost.CreatedAt = stamp(repost.CreatedAt)
	s.reposts[repost.ID] = *repost
	return nil
}

func (s *Memory) DeleteRepost(userID, postID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.reposts {
		if r.UserID == userID && r.PostID == postID {
			delete(s.reposts, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) RepostByID(id uint) (*models.Repost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reposts[id]
	if !ok {
		return nil, ErrNotFound
	}
	repost := s.hydrateRepost(r)
	return &repost, nil
}

func (s *Memory) LikesForPosts(userID uint, postIDs []uint) ([]models.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var likes []models.Like
	for _, l := range s.likes {
		if l.UserID == userID && inSet(l.PostID, postIDs) {
			likes = append(likes, l)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID < likes[j].ID })
	return likes, nil
}

func (s *Memory) RepostsForPosts(userID uint, postIDs []uint) ([]models.Repost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reposts []models.Repost
	for _, r := range s.reposts {
		if r.UserID == userID && inSet(r.PostID, postIDs) {
			reposts = append(reposts, r)
		}
	}
	sort.Slice(reposts, func(i, j int) bool { return reposts[i].ID < reposts[j].ID })
	return reposts, nil
}

func (s *Memory) PostsWithCounts(postIDs []uint) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var posts []models.Post
	for _, id := range postIDs {
		if p, ok := s.posts[id]; ok {
			post := s.hydratePost(p)
			post.Author = nil
			post.Likes = nil
			post.Replies = nil
			posts = append(posts, post)
		}
	}
	return posts, nil
}

func (s *Memory) FollowExists(followerID, followingID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Memory) CreateFollow(follow *models.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.follows {
		if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
			return ErrConflict
		}
	}
	follow.ID = s.nextID()
	follow.CreatedAt = stamp(follow.CreatedAt)
	s.follows[follow.ID] = *follow
	return nil
}

func (s *Memory) DeleteFollow(followerID, followingID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			delete(s.follows, id)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Memory) FollowingIDs(userID uint) ([]uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []uint
	for _, f := range s.follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Memory) FollowCounts(userID uint) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var following, followers int64
	for _, f := range s.follows {
		if f.FollowerID == userID {
			following++
		}
		if f.FollowingID == userID {
			followers++
		}
	}
	return following, followers, nil
}
