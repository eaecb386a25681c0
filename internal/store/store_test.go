package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/forum/internal/model"
)

func TestGetOrCreateUser(t *testing.T) {
	s := New()

	u1, created := s.GetOrCreateUser("alice")
	require.True(t, created)
	assert.Equal(t, "alice", u1.Username)

	u2, created := s.GetOrCreateUser("alice")
	assert.False(t, created)
	assert.Same(t, u1, u2)

	_, ok := s.User("bob")
	assert.False(t, ok)
}

func TestCounters(t *testing.T) {
	s := New()

	assert.Equal(t, 1, s.NextArticleID())
	assert.Equal(t, 2, s.NextArticleID())
	assert.Equal(t, 1, s.NextCommentID())
}

func TestTombstoneStates(t *testing.T) {
	s := New()
	s.PutArticle(model.NewArticle(s.NextArticleID(), "T", "u", "alice"))

	_, st := s.Article(1)
	assert.Equal(t, Active, st)
	_, st = s.Article(2)
	assert.Equal(t, Absent, st)

	assert.True(t, s.Tombstone(KindArticle, 1))
	assert.False(t, s.Tombstone(KindArticle, 1))
	assert.False(t, s.Tombstone(KindComment, 1))

	a, st := s.Article(1)
	assert.Nil(t, a)
	assert.Equal(t, Tombstoned, st)
	assert.Equal(t, "tombstoned", st.String())

	// ids are never reused
	assert.Equal(t, 2, s.NextArticleID())
}

func TestArticlesNewestFirst(t *testing.T) {
	s := New()
	for i := 0; i < 4; i++ {
		s.PutArticle(model.NewArticle(s.NextArticleID(), "T", "u", "alice"))
	}
	s.Tombstone(KindArticle, 3)

	var ids []int
	for _, a := range s.Articles() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{4, 2, 1}, ids)
}

func TestResolveByID(t *testing.T) {
	s := New()
	s.PutArticle(model.NewArticle(s.NextArticleID(), "T", "u", "alice"))
	s.PutComment(model.NewComment(s.NextCommentID(), "b", "alice", 1))
	s.PutComment(model.NewComment(s.NextCommentID(), "c", "alice", 1))
	s.Tombstone(KindComment, 1)

	assert.Len(t, s.ArticlesByID([]int{1, 9}), 1)
	comments := s.CommentsByID([]int{1, 2})
	require.Len(t, comments, 1)
	assert.Equal(t, 2, comments[0].ID)
}

func TestSnapshotRestore(t *testing.T) {
	s := New()
	alice, _ := s.GetOrCreateUser("alice")
	bob, _ := s.GetOrCreateUser("bob")

	a := model.NewArticle(s.NextArticleID(), "T", "u", "alice")
	s.PutArticle(a)
	alice.ArticleIDs.Add(a.ID)

	gone := model.NewArticle(s.NextArticleID(), "gone", "u", "bob")
	s.PutArticle(gone)
	s.Tombstone(KindArticle, gone.ID)

	c := model.NewComment(s.NextCommentID(), "hi", "bob", a.ID)
	c.UpvotedBy.Add("alice")
	s.PutComment(c)
	bob.CommentIDs.Add(c.ID)
	a.CommentIDs.Add(c.ID)

	restored := New()
	restored.Restore(s.Snapshot())

	if diff := cmp.Diff(s.Snapshot(), restored.Snapshot()); diff != "" {
		t.Errorf("restored snapshot mismatch (-want +got):\n%s", diff)
	}

	_, st := restored.Article(gone.ID)
	assert.Equal(t, Tombstoned, st)
	assert.Equal(t, 3, restored.NextArticleID())
}

func TestRestoreDefaults(t *testing.T) {
	s := New()
	s.Restore(&Snapshot{})

	assert.Equal(t, 1, s.NextArticleID())
	assert.Equal(t, 1, s.NextCommentID())
	assert.Empty(t, s.Articles())

	s.Restore(nil)
	_, ok := s.User("anyone")
	assert.False(t, ok)
}

func TestRestoreRepairsReferences(t *testing.T) {
	snap := &Snapshot{
		Users: map[string]*model.User{
			// stale ids left behind by an older writer
			"alice": {Username: "alice", ArticleIDs: model.IDList{1, 9}, CommentIDs: model.IDList{5}},
		},
		Articles: map[int]*model.Article{
			1: {Title: "T", URL: "u", Username: "alice"},
			2: nil,
		},
		Comments: map[int]*model.Comment{
			1: {Body: "b", Username: "carol", ArticleID: 1},
			2: {Body: "orphan", Username: "alice", ArticleID: 2},
		},
		NextArticleID: 1,
	}

	s := New()
	s.Restore(snap)

	alice, ok := s.User("alice")
	require.True(t, ok)
	assert.Equal(t, model.IDList{1}, alice.ArticleIDs)
	assert.Equal(t, model.IDList{}, alice.CommentIDs)

	carol, ok := s.User("carol")
	require.True(t, ok)
	assert.Equal(t, model.IDList{1}, carol.CommentIDs)

	a, _ := s.Article(1)
	assert.Equal(t, model.IDList{1}, a.CommentIDs)
	assert.NotNil(t, a.UpvotedBy)

	_, st := s.Comment(2)
	assert.Equal(t, Tombstoned, st)

	assert.Equal(t, 3, s.NextArticleID())
	assert.Equal(t, 3, s.NextCommentID())
}

func TestRestoreSkipsAuthorlessEntries(t *testing.T) {
	snap := &Snapshot{
		Users: map[string]*model.User{},
		Articles: map[int]*model.Article{
			1: {Title: "T", URL: "u"},
			2: {Title: "T", URL: "u", Username: "alice"},
		},
		Comments: map[int]*model.Comment{
			1: {Body: "b", ArticleID: 2},
		},
	}

	s := New()
	s.Restore(snap)

	_, ok := s.User("")
	assert.False(t, ok)

	_, st := s.Article(1)
	assert.Equal(t, Tombstoned, st)
	_, st = s.Comment(1)
	assert.Equal(t, Tombstoned, st)

	a, st := s.Article(2)
	require.Equal(t, Active, st)
	assert.Equal(t, model.IDList{}, a.CommentIDs)
}
