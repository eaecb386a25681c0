package payload

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/SergeyParamoshkin/forum/internal/model"
)

// Response is what every operation returns: a status code and an optional
// body. A nil Body is sent as an empty response.
type Response struct {
	Status int
	Body   render.Renderer
}

func Status(code int) Response {
	return Response{Status: code}
}

func OK(body render.Renderer) Response {
	return Response{Status: http.StatusOK, Body: body}
}

func Created(body render.Renderer) Response {
	return Response{Status: http.StatusCreated, Body: body}
}

// UserResponse is the payload of POST /users.
type UserResponse struct {
	User *model.User `json:"user"`
}

func NewUserResponse(u *model.User) *UserResponse {
	return &UserResponse{User: u}
}

func (rd *UserResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// UserDetailResponse is the payload of GET /users/{username}: the user plus
// everything it authored, in creation order.
type UserDetailResponse struct {
	User         *model.User      `json:"user"`
	UserArticles []*model.Article `json:"userArticles"`
	UserComments []*model.Comment `json:"userComments"`
}

func (rd *UserDetailResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.UserArticles == nil {
		rd.UserArticles = []*model.Article{}
	}
	if rd.UserComments == nil {
		rd.UserComments = []*model.Comment{}
	}

	return nil
}

// ArticleResponse wraps a single article.
type ArticleResponse struct {
	Article *model.Article `json:"article"`
}

func NewArticleResponse(a *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: a}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// ArticleWithComments is an article with its comments resolved. The
// comments are filled in when the article is read and are never stored.
type ArticleWithComments struct {
	*model.Article

	Comments []*model.Comment `json:"comments"`
}

// ArticleDetailResponse is the payload of GET /articles/{id}.
type ArticleDetailResponse struct {
	Article *ArticleWithComments `json:"article"`
}

func NewArticleDetailResponse(a *model.Article, comments []*model.Comment) *ArticleDetailResponse {
	return &ArticleDetailResponse{
		Article: &ArticleWithComments{Article: a, Comments: comments},
	}
}

func (rd *ArticleDetailResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Article != nil && rd.Article.Comments == nil {
		rd.Article.Comments = []*model.Comment{}
	}

	return nil
}

// ArticleListResponse is the payload of GET /articles.
type ArticleListResponse struct {
	Articles []*model.Article `json:"articles"`
}

func NewArticleListResponse(articles []*model.Article) *ArticleListResponse {
	return &ArticleListResponse{Articles: articles}
}

func (rd *ArticleListResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if rd.Articles == nil {
		rd.Articles = []*model.Article{}
	}

	return nil
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment *model.Comment `json:"comment"`
}

func NewCommentResponse(c *model.Comment) *CommentResponse {
	return &CommentResponse{Comment: c}
}

func (rd *CommentResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
