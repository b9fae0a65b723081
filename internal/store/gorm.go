package store

import (
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// Gorm is the production Store backed by a *gorm.DB opened by internal/db.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		// A write referencing a missing row (e.g. a reply to a deleted
		// parent) reads as not-found, same as the lookup would.
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

func (s *Gorm) CreateUserWithProfile(user *models.User) error {
	// User and Profile are written in one transaction; a failed profile
	// insert rolls the user back.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(user).Error
	})
	return translate(err)
}

func (s *Gorm) UserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) UserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Gorm) ProfileByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Preload("User").Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func (s *Gorm) UpdateProfile(userID uint, username, bio, imageURL string) (*models.Profile, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if username != "" {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("username", username).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Profile{}).Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"bio":               bio,
				"profile_image_url": imageURL,
			}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return s.ProfileByUserID(userID)
}

func (s *Gorm) CreatePost(post *models.Post) error {
	if err := s.db.Create(post).Error; err != nil {
		return translate(err)
	}
	// Reload with the author hydrated so the handler can respond without a
	// second round trip from the client.
	return translate(s.db.Preload("Author.Profile").First(post, post.ID).Error)
}

func (s *Gorm) PostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("Author.Profile").First(&post, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (s *Gorm) PostsByAuthor(authorID uint, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, translate(err)
}

func (s *Gorm) DeletePost(postID, authorID uint, content string) (*models.Post, error) {
	// Author and content must match besides the id; a mismatched delete
	// request must never remove anything.
	var post models.Post
	err := s.db.Where("id = ? AND author_id = ? AND content = ?", postID, authorID, content).
		First(&post).Error
	if err != nil {
		return nil, translate(err)
	}
	if err := s.db.Delete(&models.Post{}, post.ID).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func timelinePostScope(db *gorm.DB) *gorm.DB {
	return db.Preload("Author.Profile").
		Preload("Likes").
		Preload("Replies.Author.Profile").
		Preload("Replies.Likes")
}

func (s *Gorm) LatestPosts(limit int, authorIDs []uint) ([]models.Post, error) {
	query := timelinePostScope(s.db).
		Where("parent_id IS NULL").
		Order("created_at DESC").
		Limit(limit)
	if authorIDs != nil {
		query = query.Where("author_id IN ?", authorIDs)
	}
	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	if err := s.fillCounts(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Gorm) LatestReposts(limit int, userIDs []uint) ([]models.Repost, error) {
	query := s.db.Preload("User.Profile").
		Preload("Post.Author.Profile").
		Preload("Post.Likes").
		Preload("Post.Replies.Author.Profile").
		Preload("Post.Replies.Likes").
		Order("created_at DESC").
		Limit(limit)
	if userIDs != nil {
		query = query.Where("user_id IN ?", userIDs)
	}
	var reposts []models.Repost
	if err := query.Find(&reposts).Error; err != nil {
		return nil, translate(err)
	}
	return reposts, nil
}

func (s *Gorm) LikeByUserAndPost(userID, postID uint) (*models.Like, error) {
	var like models.Like
	err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&like).Error
	if err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

func (s *Gorm) CreateLike(like *models.Like) error {
	return translate(s.db.Create(like).Error)
}

func (s *Gorm) DeleteLike(userID, postID uint) error {
	return translate(s.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error)
}

func (s *Gorm) RepostByUserAndPost(userID, postID uint) (*models.Repost, error) {
	var repost models.Repost
	err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&repost).Error
	if err != nil {
		return nil, translate(err)
	}
	return &repost, nil
}

func (s *Gorm) CreateRepost(repost *models.Repost) error {
	return translate(s.db.Create(repost).Error)
}

func (s *Gorm) DeleteRepost(userID, postID uint) error {
	return translate(s.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Repost{}).Error)
}

func (s *Gorm) RepostByID(id uint) (*models.Repost, error) {
	var repost models.Repost
	err := s.db.Preload("User.Profile").
		Preload("Post.Author.Profile").
		Preload("Post.Likes").
		Preload("Post.Replies.Author.Profile").
		Preload("Post.Replies.Likes").
		First(&repost, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &repost, nil
}

func (s *Gorm) LikesForPosts(userID uint, postIDs []uint) ([]models.Like, error) {
	var likes []models.Like
	err := s.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&likes).Error
	return likes, translate(err)
}

func (s *Gorm) RepostsForPosts(userID uint, postIDs []uint) ([]models.Repost, error) {
	var reposts []models.Repost
	err := s.db.Where("user_id = ? AND post_id IN ?", userID, postIDs).Find(&reposts).Error
	return reposts, translate(err)
}

func (s *Gorm) PostsWithCounts(postIDs []uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("id IN ?", postIDs).Find(&posts).Error; err != nil {
		return nil, translate(err)
	}
	if err := s.fillCounts(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// fillCounts batch-loads reply/like/repost counts for a page of posts.
func (s *Gorm) fillCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countRow struct {
		PostID uint
		Count  int
	}

	count := func(model interface{}, column string) (map[uint]int, error) {
		var rows []countRow
		err := s.db.Model(model).
			Select(column+" AS post_id, COUNT(*) AS count").
			Where(column+" IN ?", postIDs).
			Group(column).
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		m := make(map[uint]int, len(rows))
		for _, r := range rows {
			m[r.PostID] = r.Count
		}
		return m, nil
	}

	replies, err := count(&models.Post{}, "parent_id")
	if err != nil {
		return err
	}
	likes, err := count(&models.Like{}, "post_id")
	if err != nil {
		return err
	}
	reposts, err := count(&models.Repost{}, "post_id")
	if err != nil {
		return err
	}

	for i := range posts {
		posts[i].ReplyCount = replies[posts[i].ID]
		posts[i].LikeCount = likes[posts[i].ID]
		posts[i].RepostCount = reposts[posts[i].ID]
	}
	return nil
}

func (s *Gorm) FollowExists(followerID, followingID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *Gorm) CreateFollow(follow *models.Follow) error {
	return translate(s.db.Create(follow).Error)
}

func (s *Gorm) DeleteFollow(followerID, followingID uint) error {
	return translate(s.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error)
}

func (s *Gorm) FollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, translate(err)
}

func (s *Gorm) FollowCounts(userID uint) (int64, int64, error) {
	var following, followers int64
	if err := s.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, translate(err)
	}
	if err := s.db.Model(&models.Follow{}).
		Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, translate(err)
	}
	return following, followers, nil
}
