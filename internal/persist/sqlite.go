package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/SergeyParamoshkin/forum/internal/model"
	"github.com/SergeyParamoshkin/forum/internal/store"
)

const (
	targetArticle = "article"
	targetComment = "comment"
)

// SQLite keeps the snapshot in normalized tables. Id lists are not stored;
// they follow from ownership and are rebuilt by store.Restore.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLite{db: db}
	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	if err := s.migrate(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta(
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users(
			username TEXT PRIMARY KEY
		);`,
		`CREATE TABLE IF NOT EXISTS articles(
			id INTEGER PRIMARY KEY,
			deleted INTEGER NOT NULL DEFAULT 0,
			title TEXT,
			url TEXT,
			username TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS comments(
			id INTEGER PRIMARY KEY,
			deleted INTEGER NOT NULL DEFAULT 0,
			body TEXT,
			username TEXT,
			article_id INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS votes(
			target_type TEXT NOT NULL CHECK(target_type IN ('article','comment')),
			target_id INTEGER NOT NULL,
			username TEXT NOT NULL,
			value INTEGER NOT NULL CHECK(value IN (-1,1)),
			PRIMARY KEY(target_type, target_id, username)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLite) Load(ctx context.Context) (*store.Snapshot, error) {
	meta, err := s.loadMeta(ctx)
	if err != nil {
		return nil, err
	}
	revision, saved := meta["revision"]
	if !saved {
		return nil, nil
	}

	snap := &store.Snapshot{
		Revision: revision,
		Users:    map[string]*model.User{},
		Articles: map[int]*model.Article{},
		Comments: map[int]*model.Comment{},
	}
	snap.NextArticleID, _ = strconv.Atoi(meta["next_article_id"])
	snap.NextCommentID, _ = strconv.Atoi(meta["next_comment_id"])

	if err := s.loadUsers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadArticles(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadVotes(ctx, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *SQLite) loadMeta(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	meta := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan meta: %w", err)
		}
		meta[k] = v
	}

	return meta, rows.Err()
}

func (s *SQLite) loadUsers(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT username FROM users`)
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan user: %w", err)
		}
		snap.Users[name] = model.NewUser(name)
	}

	return rows.Err()
}

func (s *SQLite) loadArticles(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, deleted, title, url, username FROM articles`)
	if err != nil {
		return fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id                   int
			deleted              bool
			title, url, username sql.NullString
		)
		if err := rows.Scan(&id, &deleted, &title, &url, &username); err != nil {
			return fmt.Errorf("scan article: %w", err)
		}
		if deleted {
			snap.Articles[id] = nil

			continue
		}
		snap.Articles[id] = model.NewArticle(id, title.String, url.String, username.String)
	}

	return rows.Err()
}

func (s *SQLite) loadComments(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, deleted, body, username, article_id FROM comments`)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id             int
			deleted        bool
			body, username sql.NullString
			articleID      sql.NullInt64
		)
		if err := rows.Scan(&id, &deleted, &body, &username, &articleID); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		if deleted {
			snap.Comments[id] = nil

			continue
		}
		snap.Comments[id] = model.NewComment(id, body.String, username.String, int(articleID.Int64))
	}

	return rows.Err()
}

func (s *SQLite) loadVotes(ctx context.Context, snap *store.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `SELECT target_type, target_id, username, value FROM votes`)
	if err != nil {
		return fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			target, username string
			id, value        int
		)
		if err := rows.Scan(&target, &id, &username, &value); err != nil {
			return fmt.Errorf("scan vote: %w", err)
		}

		var voters *model.Voters
		switch target {
		case targetArticle:
			if a := snap.Articles[id]; a != nil {
				voters = &a.Voters
			}
		case targetComment:
			if c := snap.Comments[id]; c != nil {
				voters = &c.Voters
			}
		}
		if voters == nil {
			continue
		}
		if value > 0 {
			voters.UpvotedBy.Add(username)
		} else {
			voters.DownvotedBy.Add(username)
		}
	}

	return rows.Err()
}

// Save rewrites every table inside one transaction.
func (s *SQLite) Save(ctx context.Context, snap *store.Snapshot) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"meta", "users", "articles", "comments", "votes"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for name := range snap.Users {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users(username) VALUES(?)`, name); err != nil {
			return fmt.Errorf("insert user %q: %w", name, err)
		}
	}

	for id, a := range snap.Articles {
		if a == nil {
			if _, err := tx.ExecContext(ctx, `INSERT INTO articles(id, deleted) VALUES(?, 1)`, id); err != nil {
				return fmt.Errorf("insert article %d: %w", id, err)
			}

			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO articles(id, deleted, title, url, username) VALUES(?, 0, ?, ?, ?)`,
			id, a.Title, a.URL, a.Username,
		); err != nil {
			return fmt.Errorf("insert article %d: %w", id, err)
		}
		if err := insertVotes(ctx, tx, targetArticle, id, a.Voters); err != nil {
			return err
		}
	}

	for id, c := range snap.Comments {
		if c == nil {
			if _, err := tx.ExecContext(ctx, `INSERT INTO comments(id, deleted) VALUES(?, 1)`, id); err != nil {
				return fmt.Errorf("insert comment %d: %w", id, err)
			}

			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comments(id, deleted, body, username, article_id) VALUES(?, 0, ?, ?, ?)`,
			id, c.Body, c.Username, c.ArticleID,
		); err != nil {
			return fmt.Errorf("insert comment %d: %w", id, err)
		}
		if err := insertVotes(ctx, tx, targetComment, id, c.Voters); err != nil {
			return err
		}
	}

	meta := map[string]string{
		"revision":        snap.Revision,
		"next_article_id": strconv.Itoa(snap.NextArticleID),
		"next_comment_id": strconv.Itoa(snap.NextCommentID),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES(?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

func insertVotes(ctx context.Context, tx *sql.Tx, target string, id int, v model.Voters) error {
	for value, set := range map[int]model.VoterSet{1: v.UpvotedBy, -1: v.DownvotedBy} {
		for name := range set {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO votes(target_type, target_id, username, value) VALUES(?, ?, ?, ?)`,
				target, id, name, value,
			); err != nil {
				return fmt.Errorf("insert %s %d vote by %q: %w", target, id, name, err)
			}
		}
	}

	return nil
}

func (s *SQLite) Close() error {
	if err := s.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}

	return nil
}
