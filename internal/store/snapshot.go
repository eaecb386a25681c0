package store

import (
	"github.com/SergeyParamoshkin/forum/internal/model"
)

// Snapshot is the persisted shape of the whole store. Nil entries in
// Articles and Comments are tombstones.
type Snapshot struct {
	Revision      string                 `json:"revision,omitempty" yaml:"revision,omitempty"`
	Users         map[string]*model.User `json:"users" yaml:"users"`
	Articles      map[int]*model.Article `json:"articles" yaml:"articles"`
	NextArticleID int                    `json:"nextArticleId" yaml:"nextArticleId"`
	Comments      map[int]*model.Comment `json:"comments" yaml:"comments"`
	NextCommentID int                    `json:"nextCommentId" yaml:"nextCommentId"`
}

// Snapshot returns the current contents. The maps are copies but the
// entities are shared with the store, so the snapshot must be encoded
// before the store is mutated again.
func (s *Store) Snapshot() *Snapshot {
	snap := &Snapshot{
		Users:         make(map[string]*model.User, len(s.users)),
		Articles:      make(map[int]*model.Article, len(s.articles)),
		Comments:      make(map[int]*model.Comment, len(s.comments)),
		NextArticleID: s.nextArticleID,
		NextCommentID: s.nextCommentID,
	}
	for k, v := range s.users {
		snap.Users[k] = v
	}
	for k, v := range s.articles {
		snap.Articles[k] = v
	}
	for k, v := range s.comments {
		snap.Comments[k] = v
	}

	return snap
}

// Restore replaces the store contents with snap. Missing collections fall
// back to empty ones and counters to 1. Counters are raised past the highest
// stored id, and every id list is rebuilt from entity ownership so the
// cross references hold even if the saved lists were stale.
func (s *Store) Restore(snap *Snapshot) {
	*s = *New()
	if snap == nil {
		return
	}

	for name, u := range snap.Users {
		if u == nil {
			continue
		}
		u.Username = name
		u.ArticleIDs = model.IDList{}
		u.CommentIDs = model.IDList{}
		s.users[name] = u
	}

	for id, a := range snap.Articles {
		if id >= s.nextArticleID {
			s.nextArticleID = id + 1
		}
		if a == nil || a.Username == "" {
			// no owner to attach it to
			s.articles[id] = nil

			continue
		}
		a.ID = id
		a.CommentIDs = model.IDList{}
		a.Voters.Init()
		s.articles[id] = a
		owner, _ := s.GetOrCreateUser(a.Username)
		owner.ArticleIDs.Add(id)
	}

	for id, c := range snap.Comments {
		if id >= s.nextCommentID {
			s.nextCommentID = id + 1
		}
		if c == nil {
			s.comments[id] = nil

			continue
		}
		a := s.articles[c.ArticleID]
		if a == nil || c.Username == "" {
			// orphaned by a deleted article, or authorless
			s.comments[id] = nil

			continue
		}
		c.ID = id
		c.Voters.Init()
		s.comments[id] = c
		a.CommentIDs.Add(id)
		author, _ := s.GetOrCreateUser(c.Username)
		author.CommentIDs.Add(id)
	}

	if snap.NextArticleID > s.nextArticleID {
		s.nextArticleID = snap.NextArticleID
	}
	if snap.NextCommentID > s.nextCommentID {
		s.nextCommentID = snap.NextCommentID
	}
}
