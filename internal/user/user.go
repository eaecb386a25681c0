// Package user implements the user operations of the forum API.
package user

import (
	"net/http"

	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/store"
)

type API struct {
	store *store.Store
}

func NewAPI(s *store.Store) *API {
	return &API{store: s}
}

// GetOrCreate returns the named user, creating it on first reference.
// Only the creating call answers 201.
func (a *API) GetOrCreate(req *payload.UserRequest) payload.Response {
	if req == nil || req.Username == "" {
		return payload.Status(http.StatusBadRequest)
	}

	u, created := a.store.GetOrCreateUser(req.Username)
	if created {
		return payload.Created(payload.NewUserResponse(u))
	}

	return payload.OK(payload.NewUserResponse(u))
}

// Get returns the user with the articles and comments it authored.
func (a *API) Get(username string) payload.Response {
	if username == "" {
		return payload.Status(http.StatusBadRequest)
	}

	u, ok := a.store.User(username)
	if !ok {
		return payload.Status(http.StatusNotFound)
	}

	return payload.OK(&payload.UserDetailResponse{
		User:         u,
		UserArticles: a.store.ArticlesByID(u.ArticleIDs),
		UserComments: a.store.CommentsByID(u.CommentIDs),
	})
}
