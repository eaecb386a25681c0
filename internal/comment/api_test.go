package comment

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

// fixture: users alice and bob, article 1 by alice.
func newTestAPI(t *testing.T) (*API, *store.Store) {
	t.Helper()

	s := store.New()
	alice, _ := s.GetOrCreateUser("alice")
	s.GetOrCreateUser("bob")
	a := model.NewArticle(s.NextArticleID(), "T", "http://x", "alice")
	s.PutArticle(a)
	alice.ArticleIDs.Add(a.ID)

	return NewAPI(s), s
}

func mustCreate(t *testing.T, api *API, username string) *model.Comment {
	t.Helper()

	resp := api.Create(&payload.CommentFields{Body: "hello", Username: username, ArticleID: 1})
	require.Equal(t, http.StatusCreated, resp.Status)

	return resp.Body.(*payload.CommentResponse).Comment
}

func TestCreate(t *testing.T) {
	api, s := newTestAPI(t)

	c := mustCreate(t, api, "bob")
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, 1, c.ArticleID)

	bob, _ := s.User("bob")
	assert.Equal(t, model.IDList{1}, bob.CommentIDs)
	a, _ := s.Article(1)
	assert.Equal(t, model.IDList{1}, a.CommentIDs)
}

func TestCreateValidationDoesNotConsumeIDs(t *testing.T) {
	api, s := newTestAPI(t)

	bad := []*payload.CommentFields{
		nil,
		{Username: "bob", ArticleID: 1},
		{Body: "b", ArticleID: 1},
		{Body: "b", Username: "nobody", ArticleID: 1},
		{Body: "b", Username: "bob", ArticleID: 42},
		{Body: "b", Username: "bob"},
	}
	for _, req := range bad {
		assert.Equal(t, http.StatusBadRequest, api.Create(req).Status)
	}

	c := mustCreate(t, api, "bob")
	assert.Equal(t, 1, c.ID)

	a, _ := s.Article(1)
	s.Tombstone(store.KindArticle, a.ID)
	assert.Equal(t, http.StatusBadRequest,
		api.Create(&payload.CommentFields{Body: "b", Username: "bob", ArticleID: 1}).Status)
}

func TestUpdate(t *testing.T) {
	api, _ := newTestAPI(t)
	c := mustCreate(t, api, "bob")

	valid := payload.CommentFields{ID: 1, Body: "edited", Username: "bob", ArticleID: 1}

	resp := api.Update("1", &valid)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Nil(t, resp.Body)
	assert.Equal(t, "edited", c.Body)

	mismatched := []payload.CommentFields{
		{ID: 2, Body: "x", Username: "bob", ArticleID: 1},
		{ID: 1, Body: "x", Username: "alice", ArticleID: 1},
		{ID: 1, Body: "x", Username: "bob", ArticleID: 2},
		{ID: 1, Body: "", Username: "bob", ArticleID: 1},
	}
	for i := range mismatched {
		assert.Equal(t, http.StatusBadRequest, api.Update("1", &mismatched[i]).Status)
	}
	assert.Equal(t, http.StatusBadRequest, api.Update("1", nil).Status)
	assert.Equal(t, "edited", c.Body)

	assert.Equal(t, http.StatusNotFound, api.Update("2", &valid).Status)
	assert.Equal(t, http.StatusNotFound, api.Update("", nil).Status)
}

func TestDelete(t *testing.T) {
	api, s := newTestAPI(t)
	mustCreate(t, api, "bob")
	second := mustCreate(t, api, "bob")

	require.Equal(t, http.StatusNoContent, api.Delete("1").Status)

	bob, _ := s.User("bob")
	assert.Equal(t, model.IDList{second.ID}, bob.CommentIDs)
	a, _ := s.Article(1)
	assert.Equal(t, model.IDList{second.ID}, a.CommentIDs)

	assert.Equal(t, http.StatusNotFound, api.Delete("1").Status)
	assert.Equal(t, http.StatusNotFound, api.Delete("").Status)
	assert.Equal(t, http.StatusNotFound, api.Update("1", &payload.CommentFields{ID: 1, Body: "x", Username: "bob", ArticleID: 1}).Status)
}

func TestVoteUpDownUp(t *testing.T) {
	api, _ := newTestAPI(t)
	mustCreate(t, api, "bob")

	req := &payload.VoteRequest{Username: "alice"}
	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, api.Vote(vote.Up, "1", req).Status)
		require.Equal(t, http.StatusOK, api.Vote(vote.Down, "1", req).Status)
		require.Equal(t, http.StatusOK, api.Vote(vote.Up, "1", req).Status)
	}

	resp := api.Vote(vote.Up, "1", req)
	c := resp.Body.(*payload.CommentResponse).Comment
	assert.Equal(t, []string{"alice"}, c.UpvotedBy.Names())
	assert.Empty(t, c.DownvotedBy)
}

func TestVoteErrors(t *testing.T) {
	api, _ := newTestAPI(t)
	mustCreate(t, api, "bob")

	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Up, "", &payload.VoteRequest{Username: "alice"}).Status)
	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Up, "7", &payload.VoteRequest{Username: "alice"}).Status)
	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Down, "1", &payload.VoteRequest{Username: "nobody"}).Status)
	assert.Equal(t, http.StatusBadRequest, api.Vote(vote.Down, "1", nil).Status)
}
