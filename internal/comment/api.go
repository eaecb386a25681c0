// Package comment implements the comment operations of the forum API.
package comment

import (
	"net/http"

	"github.com/SergeyParamoshkin/forum/internal/model"
	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/store"
	"github.com/SergeyParamoshkin/forum/internal/vote"
)

type API struct {
	store *store.Store
}

func NewAPI(s *store.Store) *API {
	return &API{store: s}
}

// Create adds a comment under a live article.
func (a *API) Create(req *payload.CommentFields) payload.Response {
	if req == nil || req.Body == "" || req.Username == "" {
		return payload.Status(http.StatusBadRequest)
	}
	author, ok := a.store.User(req.Username)
	if !ok {
		return payload.Status(http.StatusBadRequest)
	}
	article, st := a.store.Article(int(req.ArticleID))
	if st != store.Active {
		return payload.Status(http.StatusBadRequest)
	}

	c := model.NewComment(a.store.NextCommentID(), req.Body, req.Username, article.ID)
	a.store.PutComment(c)
	author.CommentIDs.Add(c.ID)
	article.CommentIDs.Add(c.ID)

	return payload.Created(payload.NewCommentResponse(c))
}

// Update replaces the comment text. The request must repeat the comment's
// id, author and article unchanged. On success the response has no body.
func (a *API) Update(rawID string, req *payload.CommentFields) payload.Response {
	id := payload.ParseID(rawID)
	c, st := a.store.Comment(id)
	if id == 0 || st != store.Active {
		return payload.Status(http.StatusNotFound)
	}

	if req == nil ||
		int(req.ID) != id ||
		req.Username != c.Username ||
		int(req.ArticleID) != c.ArticleID ||
		req.Body == "" {
		return payload.Status(http.StatusBadRequest)
	}

	c.Body = req.Body

	return payload.Status(http.StatusOK)
}

// Delete removes the comment and unlinks it from its author and article.
func (a *API) Delete(rawID string) payload.Response {
	id := payload.ParseID(rawID)
	c, st := a.store.Comment(id)
	if id == 0 || st != store.Active {
		return payload.Status(http.StatusNotFound)
	}

	if author, ok := a.store.User(c.Username); ok {
		author.CommentIDs.Remove(id)
	}
	if article, st := a.store.Article(c.ArticleID); st == store.Active {
		article.CommentIDs.Remove(id)
	}
	a.store.Tombstone(store.KindComment, id)

	return payload.Status(http.StatusNoContent)
}

// Vote records username's vote on the comment.
func (a *API) Vote(dir vote.Direction, rawID string, req *payload.VoteRequest) payload.Response {
	id := payload.ParseID(rawID)
	c, st := a.store.Comment(id)
	if id == 0 || st != store.Active || req == nil {
		return payload.Status(http.StatusBadRequest)
	}
	if _, ok := a.store.User(req.Username); !ok {
		return payload.Status(http.StatusBadRequest)
	}

	vote.Apply(dir, &c.Voters, req.Username)

	return payload.OK(payload.NewCommentResponse(c))
}
