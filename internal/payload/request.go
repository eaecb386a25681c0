// Package payload defines the request and response bodies of the forum API.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// UserRequest is the body of POST /users.
type UserRequest struct {
	Username string `json:"username"`
}

func (u *UserRequest) Bind(r *http.Request) error {
	return nil
}

// VoteRequest is the body of the upvote and downvote routes.
type VoteRequest struct {
	Username string `json:"username"`
}

func (v *VoteRequest) Bind(r *http.Request) error {
	return nil
}

// ArticleFields are the client supplied article fields.
type ArticleFields struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

// ArticleRequest is the body of POST /articles and PUT /articles/{id}.
type ArticleRequest struct {
	Article *ArticleFields `json:"article"`
}

// Bind rejects a body without the article object.
func (a *ArticleRequest) Bind(r *http.Request) error {
	if a.Article == nil {
		return errors.New("missing required article fields")
	}

	return nil
}

// CommentFields are the client supplied comment fields. ID is only
// meaningful on update, where it must match the path.
type CommentFields struct {
	ID        ID     `json:"id"`
	Body      string `json:"body"`
	Username  string `json:"username"`
	ArticleID ID     `json:"articleId"`
}

// CommentRequest is the body of POST /comments and PUT /comments/{id}.
type CommentRequest struct {
	Comment *CommentFields `json:"comment"`
}

// Bind rejects a body without the comment object.
func (c *CommentRequest) Bind(r *http.Request) error {
	if c.Comment == nil {
		return errors.New("missing required comment fields")
	}

	return nil
}

// ID is an entity id in a request body. Clients send it either as a number
// or as a numeric string; anything else decodes to the invalid id 0, and
// numbers that cannot be ids decode to UnusableID.
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(ParseID(s))

		return nil
	}
	*id = ID(ParseID(string(data)))

	return nil
}

// UnusableID stands for a number that cannot name an entity, such as 1.5
// or a value past the int32 range. No entity has it, so lookups miss.
const UnusableID = -1

// ParseID converts a path segment or body value to an id. It returns 0 for
// input that is not a number at all and UnusableID for numbers that are not
// whole or out of range.
func ParseID(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil && !errors.Is(err, strconv.ErrRange), math.IsNaN(f):
		return 0
	case f != math.Trunc(f) || math.Abs(f) > math.MaxInt32:
		return UnusableID
	}

	return int(f)
}
