// Package article implements the article operations of the forum API.
package article

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

// List returns every live article, newest first.
func (a *API) List() payload.Response {
	return payload.OK(payload.NewArticleListResponse(a.store.Articles()))
}

// Create persists the posted article and returns it back to the client as
// an acknowledgement.
func (a *API) Create(req *payload.ArticleFields) payload.Response {
	if req == nil || req.Title == "" || req.URL == "" || req.Username == "" {
		return payload.Status(http.StatusBadRequest)
	}
	owner, ok := a.store.User(req.Username)
	if !ok {
		return payload.Status(http.StatusBadRequest)
	}

	article := model.NewArticle(a.store.NextArticleID(), req.Title, req.URL, req.Username)
	a.store.PutArticle(article)
	owner.ArticleIDs.Add(article.ID)

	return payload.Created(payload.NewArticleResponse(article))
}

// Get returns the article with its comments resolved. A deleted article
// answers 400 while an id that was never assigned answers 404.
func (a *API) Get(rawID string) payload.Response {
	id, article, st := a.load(rawID)
	switch {
	case id == 0:
		return payload.Status(http.StatusBadRequest)
	case st == store.Tombstoned:
		return payload.Status(http.StatusBadRequest)
	case st == store.Absent:
		return payload.Status(http.StatusNotFound)
	}

	comments := a.store.CommentsByID(article.CommentIDs)

	return payload.OK(payload.NewArticleDetailResponse(article, comments))
}

// Update patches title and url. Empty fields in the request keep the
// stored value.
func (a *API) Update(rawID string, req *payload.ArticleFields) payload.Response {
	id, article, st := a.load(rawID)
	if id == 0 || req == nil {
		return payload.Status(http.StatusBadRequest)
	}
	if st != store.Active {
		return payload.Status(http.StatusNotFound)
	}

	if req.Title != "" {
		article.Title = req.Title
	}
	if req.URL != "" {
		article.URL = req.URL
	}

	return payload.OK(payload.NewArticleResponse(article))
}

// Delete removes the article and every comment under it. A missing article
// answers 400, not 404; existing clients depend on it.
func (a *API) Delete(rawID string) payload.Response {
	id, article, st := a.load(rawID)
	if st != store.Active {
		return payload.Status(http.StatusBadRequest)
	}

	for _, commentID := range article.CommentIDs {
		a.dropComment(commentID)
	}
	article.CommentIDs = model.IDList{}
	if owner, ok := a.store.User(article.Username); ok {
		owner.ArticleIDs.Remove(id)
	}
	a.store.Tombstone(store.KindArticle, id)

	return payload.Status(http.StatusNoContent)
}

// Vote records username's vote on the article.
func (a *API) Vote(dir vote.Direction, rawID string, req *payload.VoteRequest) payload.Response {
	_, article, st := a.load(rawID)
	if st != store.Active || req == nil {
		return payload.Status(http.StatusBadRequest)
	}
	if _, ok := a.store.User(req.Username); !ok {
		return payload.Status(http.StatusBadRequest)
	}

	vote.Apply(dir, &article.Voters, req.Username)

	return payload.OK(payload.NewArticleResponse(article))
}
