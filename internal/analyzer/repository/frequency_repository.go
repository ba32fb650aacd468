package repository

import (
	"context"
	"fmt"
	"strings"

	"forum-sentiment-analyzer/internal/analyzer/dto"

	"gorm.io/gorm"
)

// FrequencyKind describes a counted-frequency entity table and its forum and
// post scoped join tables. One instance exists per entity kind so the upsert
// logic is written once and never dispatches on dynamic field names.
type FrequencyKind struct {
	EntityTable    string
	EntityColumn   string
	IDColumn       string
	ForumJoinTable string
	PostJoinTable  string
}

// KeywordKind describes the keyword frequency tables.
var KeywordKind = FrequencyKind{
	EntityTable:    "keywords",
	EntityColumn:   "keyword",
	IDColumn:       "keyword_id",
	ForumJoinTable: "keyword_forums",
	PostJoinTable:  "keyword_posts",
}

// ConceptKind describes the concept frequency tables.
var ConceptKind = FrequencyKind{
	EntityTable:    "concepts",
	EntityColumn:   "concept",
	IDColumn:       "concept_id",
	ForumJoinTable: "concept_forums",
	PostJoinTable:  "concept_posts",
}

// FrequencyRepository persists extracted terms with insert-or-increment
// semantics against an entity table and its forum/post join tables.
type FrequencyRepository interface {
	InsertTerms(ctx context.Context, forumID, postID int64, terms []dto.ExtractedTerm) error
}

// NewKeywordRepository creates a FrequencyRepository over the keyword tables.
func NewKeywordRepository(db *gorm.DB) FrequencyRepository {
	return &frequencyRepository{db: db, kind: KeywordKind}
}

// NewConceptRepository creates a FrequencyRepository over the concept tables.
func NewConceptRepository(db *gorm.DB) FrequencyRepository {
	return &frequencyRepository{db: db, kind: ConceptKind}
}

type frequencyRepository struct {
	db   *gorm.DB
	kind FrequencyKind
}

// InsertTerms records every term once for the entity table and once for each
// of the forum and post join tables, incrementing counts on conflict. Each
// term is written in its own transaction so the entity row and its join rows
// stay consistent.
func (r *frequencyRepository) InsertTerms(ctx context.Context, forumID, postID int64, terms []dto.ExtractedTerm) error {
	for _, term := range terms {
		text := normalizeTerm(term.Text)
		if text == "" {
			continue
		}

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			entityID, err := r.upsertEntity(tx, text)
			if err != nil {
				return err
			}
			if err := r.upsertJoin(tx, r.kind.ForumJoinTable, "forum_id", entityID, forumID); err != nil {
				return err
			}
			return r.upsertJoin(tx, r.kind.PostJoinTable, "post_id", entityID, postID)
		})
		if err != nil {
			return fmt.Errorf("failed to upsert %s %q: %w", r.kind.EntityColumn, text, err)
		}
	}
	return nil
}

// upsertEntity relies on the store's native atomic upsert rather than a
// catch-then-retry insert, so two writers cannot both take the insert path.
func (r *frequencyRepository) upsertEntity(tx *gorm.DB, text string) (int64, error) {
	var id int64
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, count) VALUES (?, 1)
		 ON CONFLICT (%s) DO UPDATE SET count = %s.count + 1
		 RETURNING id`,
		r.kind.EntityTable, r.kind.EntityColumn, r.kind.EntityColumn, r.kind.EntityTable,
	)
	if err := tx.Raw(query, text).Scan(&id).Error; err != nil {
		return 0, err
	}
	return id, nil
}

func (r *frequencyRepository) upsertJoin(tx *gorm.DB, table, scopeColumn string, entityID, scopeID int64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (%s, %s, count) VALUES (?, ?, 1)
		 ON CONFLICT (%s, %s) DO UPDATE SET count = %s.count + 1`,
		table, r.kind.IDColumn, scopeColumn, r.kind.IDColumn, scopeColumn, table,
	)
	return tx.Exec(query, entityID, scopeID).Error
}

func normalizeTerm(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}
