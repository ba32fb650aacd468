package repository

import (
	"context"
	"database/sql"
	"time"

	"forum-sentiment-analyzer/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ForumRows is a forward-only cursor over forums with analysis enabled. It
// remembers whether it ever produced a row, which callers consult after the
// cursor is exhausted. Close must be called on every exit path.
type ForumRows struct {
	rows    *sql.Rows
	current entity.EnabledForum
	seen    bool
	err     error
}

// Next advances the cursor, returning false when no rows remain.
func (r *ForumRows) Next() bool {
	if !r.rows.Next() {
		r.err = r.rows.Err()
		return false
	}
	if err := r.rows.Scan(&r.current.ForumID, &r.current.Name, &r.current.CourseID, &r.current.Type); err != nil {
		r.err = err
		return false
	}
	r.seen = true
	return true
}

// Forum returns the row the cursor is positioned on.
func (r *ForumRows) Forum() entity.EnabledForum {
	return r.current
}

// Seen reports whether the cursor produced at least one row, valid even after
// full consumption.
func (r *ForumRows) Seen() bool {
	return r.seen
}

// Err returns the first error encountered during iteration.
func (r *ForumRows) Err() error {
	return r.err
}

// Close releases the underlying rows.
func (r *ForumRows) Close() error {
	return r.rows.Close()
}

// ForumRepository manages the per-forum analysis feature toggle and the
// enabled-forum listing.
type ForumRepository interface {
	EnabledForums(ctx context.Context, courseID *int64) (*ForumRows, error)
	GetConfig(ctx context.Context, forumID int64) (*entity.ForumSentiment, error)
	SetEnabled(ctx context.Context, forumID int64, enabled bool) error
	DeleteForumData(ctx context.Context, forumID int64) error
}

// NewForumRepository creates a new instance of ForumRepository.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

type forumRepository struct {
	db *gorm.DB
}

// EnabledForums returns a lazy cursor over forums with sentiment analysis
// enabled, optionally restricted to a course.
func (r *forumRepository) EnabledForums(ctx context.Context, courseID *int64) (*ForumRows, error) {
	query := `
	SELECT fs.forum_id, f.name, f.course_id, f.type
	FROM forum_sentiments AS fs
	JOIN forums AS f ON f.id = fs.forum_id
	WHERE fs.enabled = ?`
	args := []interface{}{true}

	if courseID != nil {
		query += " AND f.course_id = ?"
		args = append(args, *courseID)
	}
	query += " ORDER BY fs.forum_id"

	rows, err := r.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	return &ForumRows{rows: rows}, nil
}

func (r *forumRepository) GetConfig(ctx context.Context, forumID int64) (*entity.ForumSentiment, error) {
	var cfg entity.ForumSentiment
	err := r.db.WithContext(ctx).Where("forum_id = ?", forumID).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetEnabled upserts the feature toggle for a forum, as happens when the
// forum's settings are saved.
func (r *forumRepository) SetEnabled(ctx context.Context, forumID int64, enabled bool) error {
	cfg := entity.ForumSentiment{
		ForumID:      forumID,
		Enabled:      enabled,
		TimeModified: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "forum_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"enabled", "time_modified"}),
	}).Create(&cfg).Error
}

// DeleteForumData removes the feature toggle and all derived rows for a
// forum: per-post results, the rolling summary and the forum/post scoped
// keyword and concept joins. Global keyword and concept counts are kept, as
// they aggregate across all forums.
func (r *forumRepository) DeleteForumData(ctx context.Context, forumID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postJoins := map[string]string{
			"keyword_posts": "post_sentiments",
			"concept_posts": "post_sentiments",
		}
		for joinTable, postTable := range postJoins {
			q := "DELETE FROM " + joinTable +
				" WHERE post_id IN (SELECT post_id FROM " + postTable + " WHERE forum_id = ?)"
			if err := tx.Exec(q, forumID).Error; err != nil {
				return err
			}
		}

		steps := []interface{}{
			&entity.KeywordForum{},
			&entity.ConceptForum{},
			&entity.PostSentiment{},
			&entity.ForumSentimentSummary{},
			&entity.ForumSentiment{},
		}
		for _, model := range steps {
			if err := tx.Where("forum_id = ?", forumID).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
