// Package router maps a verb and a raw path onto a forum operation.
//
// Paths are resolved to a route pattern by position, not by matching each
// segment: "/articles/1/anything" resolves to "/articles/:id". A verb and
// pattern pair missing from the table answers 400 with an empty body.
package router

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/forum/internal/article"
	"github.com/SergeyParamoshkin/forum/internal/comment"
	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/store"
	"github.com/SergeyParamoshkin/forum/internal/user"
	"github.com/SergeyParamoshkin/forum/internal/vote"
)

const (
	PatternUsers           = "/users"
	PatternUser            = "/users/:username"
	PatternArticles        = "/articles"
	PatternArticle         = "/articles/:id"
	PatternArticleUpvote   = "/articles/:id/upvote"
	PatternArticleDownvote = "/articles/:id/downvote"
	PatternComments        = "/comments"
	PatternComment         = "/comments/:id"
	PatternCommentUpvote   = "/comments/:id/upvote"
	PatternCommentDownvote = "/comments/:id/downvote"
)

// Params are the positional parameters extracted from a path.
type Params struct {
	ID       string
	Username string
}

// Call is one request as seen by an operation.
type Call struct {
	Params Params
	body   []byte
}

// Bind decodes the JSON body into v and runs its Bind hook. An empty body
// leaves v untouched.
func (c *Call) Bind(v render.Binder) error {
	if len(bytes.TrimSpace(c.body)) == 0 {
		return nil
	}

	// operations only see the buffered body; render wants it on a request
	r, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(c.body))
	if err != nil {
		return err
	}
	ctx := context.WithValue(r.Context(), render.ContentTypeCtxKey, render.ContentTypeJSON)

	return render.Bind(r.WithContext(ctx), v)
}

type Operation func(c *Call) payload.Response

// Route is a single entry of the route table.
type Route struct {
	Method  string
	Pattern string
}

type Router struct {
	table map[string]map[string]Operation
}

// New builds the route table over one store.
func New(s *store.Store) *Router {
	users := user.NewAPI(s)
	articles := article.NewAPI(s)
	comments := comment.NewAPI(s)

	return &Router{table: map[string]map[string]Operation{
		PatternUsers: {
			http.MethodPost: func(c *Call) payload.Response {
				return users.GetOrCreate(bindUser(c))
			},
		},
		PatternUser: {
			http.MethodGet: func(c *Call) payload.Response {
				return users.Get(c.Params.Username)
			},
		},
		PatternArticles: {
			http.MethodGet: func(c *Call) payload.Response {
				return articles.List()
			},
			http.MethodPost: func(c *Call) payload.Response {
				return articles.Create(bindArticle(c))
			},
		},
		PatternArticle: {
			http.MethodGet: func(c *Call) payload.Response {
				return articles.Get(c.Params.ID)
			},
			http.MethodPut: func(c *Call) payload.Response {
				return articles.Update(c.Params.ID, bindArticle(c))
			},
			http.MethodDelete: func(c *Call) payload.Response {
				return articles.Delete(c.Params.ID)
			},
		},
		PatternArticleUpvote: {
			http.MethodPut: func(c *Call) payload.Response {
				return articles.Vote(vote.Up, c.Params.ID, bindVote(c))
			},
		},
		PatternArticleDownvote: {
			http.MethodPut: func(c *Call) payload.Response {
				return articles.Vote(vote.Down, c.Params.ID, bindVote(c))
			},
		},
		PatternComments: {
			http.MethodPost: func(c *Call) payload.Response {
				return comments.Create(bindComment(c))
			},
		},
		PatternComment: {
			http.MethodPut: func(c *Call) payload.Response {
				return comments.Update(c.Params.ID, bindComment(c))
			},
			http.MethodDelete: func(c *Call) payload.Response {
				return comments.Delete(c.Params.ID)
			},
		},
		PatternCommentUpvote: {
			http.MethodPut: func(c *Call) payload.Response {
				return comments.Vote(vote.Up, c.Params.ID, bindVote(c))
			},
		},
		PatternCommentDownvote: {
			http.MethodPut: func(c *Call) payload.Response {
				return comments.Vote(vote.Down, c.Params.ID, bindVote(c))
			},
		},
	}}
}

// The bind helpers treat an unreadable body as a missing one, which every
// operation rejects.

func bindUser(c *Call) *payload.UserRequest {
	var req payload.UserRequest
	if c.Bind(&req) != nil {
		return nil
	}

	return &req
}

func bindArticle(c *Call) *payload.ArticleFields {
	var req payload.ArticleRequest
	if c.Bind(&req) != nil {
		return nil
	}

	return req.Article
}

func bindComment(c *Call) *payload.CommentFields {
	var req payload.CommentRequest
	if c.Bind(&req) != nil {
		return nil
	}

	return req.Comment
}

func bindVote(c *Call) *payload.VoteRequest {
	var req payload.VoteRequest
	if c.Bind(&req) != nil {
		return nil
	}

	return &req
}

// Resolve maps a raw path to its route pattern and parameters. ok is false
// when the path has no segments at all.
func Resolve(path string) (pattern string, params Params, ok bool) {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s == "" {
			continue
		}
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
		segments = append(segments, s)
	}

	switch {
	case len(segments) == 0:
		return "", Params{}, false
	case len(segments) == 1:
		return "/" + segments[0], Params{}, true
	case len(segments) > 2 && (segments[2] == "upvote" || segments[2] == "downvote"):
		return "/" + segments[0] + "/:id/" + segments[2], Params{ID: segments[1]}, true
	case segments[0] == "users":
		return "/users/:username", Params{Username: segments[1]}, true
	default:
		return "/" + segments[0] + "/:id", Params{ID: segments[1]}, true
	}
}

// Dispatch runs the operation for method and path. body is the raw request
// body and may be empty.
func (rt *Router) Dispatch(method, path string, body []byte) payload.Response {
	op, params, ok := rt.Match(method, path)
	if !ok {
		return payload.Status(http.StatusBadRequest)
	}

	return op(&Call{Params: params, body: body})
}

// Match resolves path and looks the operation up for method.
func (rt *Router) Match(method, path string) (Operation, Params, bool) {
	pattern, params, ok := Resolve(path)
	if !ok {
		return nil, Params{}, false
	}
	op, ok := rt.table[pattern][method]

	return op, params, ok
}

// Routes lists the table sorted by pattern then method.
func (rt *Router) Routes() []Route {
	var routes []Route
	for pattern, methods := range rt.table {
		for method := range methods {
			routes = append(routes, Route{Method: method, Pattern: pattern})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Pattern != routes[j].Pattern {
			return routes[i].Pattern < routes[j].Pattern
		}

		return routes[i].Method < routes[j].Method
	})

	return routes
}

// Mutating reports whether a successful call with method changes the store.
func Mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}
