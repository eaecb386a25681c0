// Package client is a Go client for the forum API.
//
// Every call returns the HTTP status next to the decoded body. The error is
// only set for transport and decoding failures; API refusals come back as a
// non-2xx status with a nil body.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SergeyParamoshkin/forum/internal/model"
	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/vote"
)

type Client struct {
	http.Client
	// Addr is the API base url, e.g. http://localhost:4000.
	Addr string
	// DiagAddr is the diagnostics base url used by Ping.
	DiagAddr string
}

// Ping checks the diagnostics server.
func (c *Client) Ping(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DiagAddr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func (c *Client) CreateUser(ctx context.Context, username string) (*model.User, int, error) {
	var out payload.UserResponse
	status, err := c.do(ctx, http.MethodPost, "/users", payload.UserRequest{Username: username}, &out)

	return out.User, status, err
}

func (c *Client) GetUser(ctx context.Context, username string) (*payload.UserDetailResponse, int, error) {
	var out payload.UserDetailResponse
	status, err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, &out)
	if out.User == nil {
		return nil, status, err
	}

	return &out, status, err
}

func (c *Client) ListArticles(ctx context.Context) ([]*model.Article, int, error) {
	var out payload.ArticleListResponse
	status, err := c.do(ctx, http.MethodGet, "/articles", nil, &out)

	return out.Articles, status, err
}

func (c *Client) CreateArticle(ctx context.Context, fields payload.ArticleFields) (*model.Article, int, error) {
	var out payload.ArticleResponse
	status, err := c.do(ctx, http.MethodPost, "/articles", payload.ArticleRequest{Article: &fields}, &out)

	return out.Article, status, err
}

func (c *Client) GetArticle(ctx context.Context, id int) (*payload.ArticleWithComments, int, error) {
	var out payload.ArticleDetailResponse
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/articles/%d", id), nil, &out)

	return out.Article, status, err
}

func (c *Client) UpdateArticle(ctx context.Context, id int, fields payload.ArticleFields) (*model.Article, int, error) {
	var out payload.ArticleResponse
	status, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/articles/%d", id), payload.ArticleRequest{Article: &fields}, &out)

	return out.Article, status, err
}

func (c *Client) DeleteArticle(ctx context.Context, id int) (int, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/articles/%d", id), nil, nil)
}

func (c *Client) VoteArticle(ctx context.Context, id int, dir vote.Direction, username string) (*model.Article, int, error) {
	var out payload.ArticleResponse
	status, err := c.do(ctx, http.MethodPut, votePath("articles", id, dir), payload.VoteRequest{Username: username}, &out)

	return out.Article, status, err
}

func (c *Client) CreateComment(ctx context.Context, fields payload.CommentFields) (*model.Comment, int, error) {
	var out payload.CommentResponse
	status, err := c.do(ctx, http.MethodPost, "/comments", payload.CommentRequest{Comment: &fields}, &out)

	return out.Comment, status, err
}

// UpdateComment answers with a status only. Only the body may change;
// fields must repeat the id, author and article of the comment.
func (c *Client) UpdateComment(ctx context.Context, id int, fields payload.CommentFields) (int, error) {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/comments/%d", id), payload.CommentRequest{Comment: &fields}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, id int) (int, error) {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

func (c *Client) VoteComment(ctx context.Context, id int, dir vote.Direction, username string) (*model.Comment, int, error) {
	var out payload.CommentResponse
	status, err := c.do(ctx, http.MethodPut, votePath("comments", id, dir), payload.VoteRequest{Username: username}, &out)

	return out.Comment, status, err
}

// votePath builds e.g. /articles/3/upvote.
func votePath(collection string, id int, dir vote.Direction) string {
	return fmt.Sprintf("/%s/%d/%svote", collection, id, strings.ToLower(string(dir)))
}

// do sends in as JSON when non-nil and decodes a successful response into
// out when both are present.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Addr+path, body)
	if err != nil {
		return 0, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if out == nil || resp.StatusCode >= http.StatusMultipleChoices || len(bytes.TrimSpace(data)) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}

	return resp.StatusCode, nil
}
