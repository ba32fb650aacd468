package entity

// Concept is a normalized concept extracted by the analysis service, with a
// global occurrence count across all analyzed posts.
type Concept struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Concept string `gorm:"uniqueIndex;not null" json:"concept"`
	Count   int64  `gorm:"not null;default:1" json:"count"`
}

func (Concept) TableName() string {
	return "concepts"
}

// ConceptForum counts concept occurrences scoped to a forum.
type ConceptForum struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	ConceptID int64 `gorm:"not null;uniqueIndex:idx_concept_forum" json:"concept_id"`
	ForumID   int64 `gorm:"not null;uniqueIndex:idx_concept_forum" json:"forum_id"`
	Count     int64 `gorm:"not null;default:1" json:"count"`
}

func (ConceptForum) TableName() string {
	return "concept_forums"
}

// ConceptPost counts concept occurrences scoped to a post.
type ConceptPost struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	ConceptID int64 `gorm:"not null;uniqueIndex:idx_concept_post" json:"concept_id"`
	PostID    int64 `gorm:"not null;uniqueIndex:idx_concept_post" json:"post_id"`
	Count     int64 `gorm:"not null;default:1" json:"count"`
}

func (ConceptPost) TableName() string {
	return "concept_posts"
}
