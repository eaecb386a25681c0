package article

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/forum/internal/model"
	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/store"
	"github.com/SergeyParamoshkin/forum/internal/vote"
)

func newTestAPI(t *testing.T, users ...string) (*API, *store.Store) {
	t.Helper()

	s := store.New()
	for _, name := range users {
		s.GetOrCreateUser(name)
	}

	return NewAPI(s), s
}

func mustCreate(t *testing.T, api *API, title, username string) *model.Article {
	t.Helper()

	resp := api.Create(&payload.ArticleFields{Title: title, URL: "http://" + title, Username: username})
	require.Equal(t, http.StatusCreated, resp.Status)

	return resp.Body.(*payload.ArticleResponse).Article
}

func TestCreate(t *testing.T) {
	api, s := newTestAPI(t, "alice")

	a := mustCreate(t, api, "T", "alice")
	assert.Equal(t, 1, a.ID)
	assert.Empty(t, a.CommentIDs)
	assert.Empty(t, a.UpvotedBy)

	alice, _ := s.User("alice")
	assert.Equal(t, model.IDList{1}, alice.ArticleIDs)
}

func TestCreateValidation(t *testing.T) {
	api, s := newTestAPI(t, "alice")

	bad := []*payload.ArticleFields{
		nil,
		{URL: "u", Username: "alice"},
		{Title: "t", Username: "alice"},
		{Title: "t", URL: "u"},
		{Title: "t", URL: "u", Username: "nobody"},
	}
	for _, req := range bad {
		assert.Equal(t, http.StatusBadRequest, api.Create(req).Status)
	}

	// failed creations do not consume ids
	assert.Equal(t, 1, s.NextArticleID())
}

func TestListNewestFirst(t *testing.T) {
	api, _ := newTestAPI(t, "alice")
	for _, title := range []string{"a", "b", "c"} {
		mustCreate(t, api, title, "alice")
	}
	require.Equal(t, http.StatusNoContent, api.Delete("2").Status)

	resp := api.List()
	require.Equal(t, http.StatusOK, resp.Status)

	var ids []int
	for _, a := range resp.Body.(*payload.ArticleListResponse).Articles {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{3, 1}, ids)
}

func TestGet(t *testing.T) {
	api, s := newTestAPI(t, "alice")
	a := mustCreate(t, api, "T", "alice")

	c := model.NewComment(s.NextCommentID(), "hi", "alice", a.ID)
	s.PutComment(c)
	a.CommentIDs.Add(c.ID)

	resp := api.Get("1")
	require.Equal(t, http.StatusOK, resp.Status)
	detail := resp.Body.(*payload.ArticleDetailResponse)
	assert.Equal(t, []*model.Comment{c}, detail.Article.Comments)

	tests := map[string]int{
		"":    http.StatusBadRequest,
		"abc": http.StatusBadRequest,
		"0":   http.StatusBadRequest,
		"9":   http.StatusNotFound,
	}
	for raw, want := range tests {
		assert.Equal(t, want, api.Get(raw).Status, "Get(%q)", raw)
	}
}

func TestGetDeletedArticle(t *testing.T) {
	api, _ := newTestAPI(t, "alice")
	mustCreate(t, api, "T", "alice")
	require.Equal(t, http.StatusNoContent, api.Delete("1").Status)

	assert.Equal(t, http.StatusBadRequest, api.Get("1").Status)
}

func TestUpdatePatchesNonEmptyFields(t *testing.T) {
	api, _ := newTestAPI(t, "alice")
	mustCreate(t, api, "T", "alice")

	resp := api.Update("1", &payload.ArticleFields{Title: "", URL: "X"})
	require.Equal(t, http.StatusOK, resp.Status)

	a := resp.Body.(*payload.ArticleResponse).Article
	assert.Equal(t, "T", a.Title)
	assert.Equal(t, "X", a.URL)
}

func TestUpdateErrors(t *testing.T) {
	api, _ := newTestAPI(t, "alice")
	mustCreate(t, api, "T", "alice")

	assert.Equal(t, http.StatusBadRequest, api.Update("", &payload.ArticleFields{}).Status)
	assert.Equal(t, http.StatusBadRequest, api.Update("1", nil).Status)
	assert.Equal(t, http.StatusNotFound, api.Update("5", &payload.ArticleFields{Title: "x"}).Status)

	require.Equal(t, http.StatusNoContent, api.Delete("1").Status)
	assert.Equal(t, http.StatusNotFound, api.Update("1", &payload.ArticleFields{Title: "x"}).Status)
}

func TestDeleteCascades(t *testing.T) {
	api, s := newTestAPI(t, "alice", "bob")
	a := mustCreate(t, api, "T", "alice")
	keep := mustCreate(t, api, "K", "alice")

	bob, _ := s.User("bob")
	for i := 0; i < 2; i++ {
		c := model.NewComment(s.NextCommentID(), "c", "bob", a.ID)
		s.PutComment(c)
		a.CommentIDs.Add(c.ID)
		bob.CommentIDs.Add(c.ID)
	}
	other := model.NewComment(s.NextCommentID(), "c", "bob", keep.ID)
	s.PutComment(other)
	keep.CommentIDs.Add(other.ID)
	bob.CommentIDs.Add(other.ID)

	require.Equal(t, http.StatusNoContent, api.Delete("1").Status)

	alice, _ := s.User("alice")
	assert.Equal(t, model.IDList{keep.ID}, alice.ArticleIDs)
	assert.Equal(t, model.IDList{other.ID}, bob.CommentIDs)

	for _, id := range []int{1, 2} {
		_, st := s.Comment(id)
		assert.Equal(t, store.Tombstoned, st)
	}
	_, st := s.Article(1)
	assert.Equal(t, store.Tombstoned, st)

	assert.Equal(t, http.StatusBadRequest, api.Delete("1").Status)
	assert.Equal(t, http.StatusBadRequest, api.Delete("77").Status)
}

func TestVote(t *testing.T) {
	api, _ := newTestAPI(t, "alice", "bob")
	mustCreate(t, api, "T", "alice")

	resp := api.Vote(vote.Up, "1", &payload.VoteRequest{Username: "bob"})
	require.Equal(t, http.StatusOK, resp.Status)
	a := resp.Body.(*payload.ArticleResponse).Article
	assert.Equal(t, []string{"bob"}, a.UpvotedBy.Names())

	api.Vote(vote.Down, "1", &payload.VoteRequest{Username: "bob"})
	assert.Empty(t, a.UpvotedBy)
	assert.Equal(t, []string{"bob"}, a.DownvotedBy.Names())

	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Up, "1", &payload.VoteRequest{Username: "nobody"}).Status)
	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Up, "1", nil).Status)
	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Up, "2", &payload.VoteRequest{Username: "bob"}).Status)
}
