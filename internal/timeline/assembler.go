// Package timeline merges original posts and reposts into one
// reverse-chronological feed.
package timeline

import (
	"sort"
	"time"

	"chirp/internal/models"
	"chirp/internal/store"
)

const (
	KindPost   = "post"
	KindRepost = "repost"
)

// Entry is one feed item. For reposts CreatedAt is the repost's own
// creation time, not the underlying post's.
type Entry struct {
	Type       string       `json:"type"`
	CreatedAt  time.Time    `json:"createdAt"`
	Post       models.Post  `json:"post"`
	RepostedBy *models.User `json:"repostedBy,omitempty"`
}

// Merge tags and combines the two fetch results, sorted descending by each
// entry's own sort key. Ties keep input order: posts first, then reposts.
// The result may exceed either input bound; the two fetches are independent.
func Merge(posts []models.Post, reposts []models.Repost) []Entry {
	entries := make([]Entry, 0, len(posts)+len(reposts))
	for _, p := range posts {
		entries = append(entries, Entry{
			Type:      KindPost,
			CreatedAt: p.CreatedAt,
			Post:      p,
		})
	}
	for _, r := range reposts {
		if r.Post == nil {
			continue
		}
		entries = append(entries, Entry{
			Type:       KindRepost,
			CreatedAt:  r.CreatedAt,
			Post:       *r.Post,
			RepostedBy: r.User,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

// Assembler runs the two bounded fetches against the store and merges them.
type Assembler struct {
	store store.Store
}

func NewAssembler(s store.Store) *Assembler {
	return &Assembler{store: s}
}

// Latest returns the global feed: up to limit top-level posts and up to
// limit reposts, merged. Anonymous and authenticated callers see the same.
func (a *Assembler) Latest(limit int) ([]Entry, error) {
	posts, err := a.store.LatestPosts(limit, nil)
	if err != nil {
		return nil, err
	}
	reposts, err := a.store.LatestReposts(limit, nil)
	if err != nil {
		return nil, err
	}
	return Merge(posts, reposts), nil
}

// Following returns the feed restricted to accounts the user follows plus
// the user's own posts and reposts.
func (a *Assembler) Following(userID uint, limit int) ([]Entry, error) {
	ids, err := a.store.FollowingIDs(userID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, userID)

	posts, err := a.store.LatestPosts(limit, ids)
	if err != nil {
		return nil, err
	}
	reposts, err := a.store.LatestReposts(limit, ids)
	if err != nil {
		return nil, err
	}
	return Merge(posts, reposts), nil
}
