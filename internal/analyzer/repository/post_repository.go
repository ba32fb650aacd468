package repository

import (
	"context"
	"database/sql"
	"time"

	"forum-sentiment-analyzer/internal/entity"

	"gorm.io/gorm"
)

// UnanalyzedPost is a forum post that has no sentiment record yet.
type UnanalyzedPost struct {
	ID      int64
	ForumID int64
	Subject string
	Message string
	Created time.Time
}

// PostRows is a forward-only cursor over unanalyzed posts, mirroring
// ForumRows: it tracks whether anything was yielded and must be closed on
// every exit path.
type PostRows struct {
	rows    *sql.Rows
	current UnanalyzedPost
	seen    bool
	err     error
}

// Next advances the cursor, returning false when no rows remain.
func (r *PostRows) Next() bool {
	if !r.rows.Next() {
		r.err = r.rows.Err()
		return false
	}
	if err := r.rows.Scan(&r.current.ID, &r.current.ForumID, &r.current.Subject, &r.current.Message, &r.current.Created); err != nil {
		r.err = err
		return false
	}
	r.seen = true
	return true
}

// Post returns the row the cursor is positioned on.
func (r *PostRows) Post() UnanalyzedPost {
	return r.current
}

// Seen reports whether the cursor produced at least one row.
func (r *PostRows) Seen() bool {
	return r.seen
}

// Err returns the first error encountered during iteration.
func (r *PostRows) Err() error {
	return r.err
}

// Close releases the underlying rows.
func (r *PostRows) Close() error {
	return r.rows.Close()
}

// PostRepository finds unanalyzed posts and records their analysis results.
type PostRepository interface {
	UnanalyzedPosts(ctx context.Context, forumID int64) (*PostRows, error)
	CreateSentiment(ctx context.Context, record *entity.PostSentiment) error
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

type postRepository struct {
	db *gorm.DB
}

// UnanalyzedPosts returns a lazy cursor over posts in the forum that have no
// sentiment record. The anti-join on post_sentiments doubles as the
// processed marker, so a post is unanalyzed regardless of age.
func (r *postRepository) UnanalyzedPosts(ctx context.Context, forumID int64) (*PostRows, error) {
	query := `
	SELECT p.id, d.forum_id, p.subject, p.message, p.created
	FROM forum_posts AS p
	JOIN forum_discussions AS d ON d.id = p.discussion_id
	LEFT JOIN post_sentiments AS ps ON ps.post_id = p.id
	WHERE d.forum_id = ? AND ps.id IS NULL
	ORDER BY p.created, p.id`

	rows, err := r.db.WithContext(ctx).Raw(query, forumID).Rows()
	if err != nil {
		return nil, err
	}
	return &PostRows{rows: rows}, nil
}

// CreateSentiment inserts the per-post analysis result. Rows are keyed by
// post id and written exactly once.
func (r *postRepository) CreateSentiment(ctx context.Context, record *entity.PostSentiment) error {
	return r.db.WithContext(ctx).Create(record).Error
}
