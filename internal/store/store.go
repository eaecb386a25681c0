// Package store holds the in-memory forum database: users, articles,
// comments and the id counters. It is not safe for concurrent use; callers
// serialize access.
package store

import (
	"sort"

	"github.com/SergeyParamoshkin/forum/internal/model"
)

// State tells apart ids that were never assigned from deleted ones.
type State int

const (
	Absent State = iota
	Active
	Tombstoned
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Tombstoned:
		return "tombstoned"
	default:
		return "absent"
	}
}

// Kind selects the collection for Tombstone.
type Kind int

const (
	KindArticle Kind = iota + 1
	KindComment
)

// Store is the aggregate root. A nil value in articles or comments is a
// tombstone: the key stays so the id is never handed out again.
type Store struct {
	users         map[string]*model.User
	articles      map[int]*model.Article
	comments      map[int]*model.Comment
	nextArticleID int
	nextCommentID int
}

func New() *Store {
	return &Store{
		users:         map[string]*model.User{},
		articles:      map[int]*model.Article{},
		comments:      map[int]*model.Comment{},
		nextArticleID: 1,
		nextCommentID: 1,
	}
}

// User returns the user called name, if any.
func (s *Store) User(name string) (*model.User, bool) {
	u, ok := s.users[name]

	return u, ok
}

// GetOrCreateUser returns the user called name, creating it with empty id
// lists when missing. created reports whether a new user was made.
func (s *Store) GetOrCreateUser(name string) (u *model.User, created bool) {
	if u, ok := s.users[name]; ok {
		return u, false
	}
	u = model.NewUser(name)
	s.users[name] = u

	return u, true
}

func (s *Store) Article(id int) (*model.Article, State) {
	a, ok := s.articles[id]

	return a, state(ok, a == nil)
}

func (s *Store) Comment(id int) (*model.Comment, State) {
	c, ok := s.comments[id]

	return c, state(ok, c == nil)
}

func state(present, cleared bool) State {
	switch {
	case !present:
		return Absent
	case cleared:
		return Tombstoned
	default:
		return Active
	}
}

// NextArticleID hands out the next article id.
func (s *Store) NextArticleID() int {
	id := s.nextArticleID
	s.nextArticleID++

	return id
}

// NextCommentID hands out the next comment id.
func (s *Store) NextCommentID() int {
	id := s.nextCommentID
	s.nextCommentID++

	return id
}

func (s *Store) PutArticle(a *model.Article) {
	s.articles[a.ID] = a
}

func (s *Store) PutComment(c *model.Comment) {
	s.comments[c.ID] = c
}

// Tombstone clears the slot of an existing id. It reports false when the id
// was never assigned or is already a tombstone.
func (s *Store) Tombstone(kind Kind, id int) bool {
	switch kind {
	case KindArticle:
		if a := s.articles[id]; a != nil {
			s.articles[id] = nil

			return true
		}
	case KindComment:
		if c := s.comments[id]; c != nil {
			s.comments[id] = nil

			return true
		}
	}

	return false
}

// Articles returns the live articles, newest first.
func (s *Store) Articles() []*model.Article {
	list := make([]*model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if a != nil {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })

	return list
}

// ArticlesByID resolves ids to live articles, skipping any that are gone.
func (s *Store) ArticlesByID(ids []int) []*model.Article {
	list := make([]*model.Article, 0, len(ids))
	for _, id := range ids {
		if a := s.articles[id]; a != nil {
			list = append(list, a)
		}
	}

	return list
}

// CommentsByID resolves ids to live comments, skipping any that are gone.
func (s *Store) CommentsByID(ids []int) []*model.Comment {
	list := make([]*model.Comment, 0, len(ids))
	for _, id := range ids {
		if c := s.comments[id]; c != nil {
			list = append(list, c)
		}
	}

	return list
}
