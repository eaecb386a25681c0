package article

import (
	"github.com/SergeyParamoshkin/forum/internal/model"
	"github.com/SergeyParamoshkin/forum/internal/payload"
	"github.com/SergeyParamoshkin/forum/internal/store"
)

// load resolves a raw path id. id is 0 when the segment is not a number,
// in which case st is always Absent. Numbers that cannot be ids resolve to
// an Absent article.
func (a *API) load(rawID string) (id int, article *model.Article, st store.State) {
	id = payload.ParseID(rawID)
	if id == 0 {
		return 0, nil, store.Absent
	}
	article, st = a.store.Article(id)

	return id, article, st
}

// dropComment tombstones a comment of a deleted article and unlinks it from
// its author.
func (a *API) dropComment(id int) {
	c, st := a.store.Comment(id)
	if st != store.Active {
		return
	}
	if author, ok := a.store.User(c.Username); ok {
		author.CommentIDs.Remove(id)
	}
	a.store.Tombstone(store.KindComment, id)
}
