package entity

// Keyword is a normalized keyword extracted by the analysis service, with a
// global occurrence count across all analyzed posts.
type Keyword struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	Keyword string `gorm:"uniqueIndex;not null" json:"keyword"`
	Count   int64  `gorm:"not null;default:1" json:"count"`
}

func (Keyword) TableName() string {
	return "keywords"
}

// KeywordForum counts keyword occurrences scoped to a forum.
type KeywordForum struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	KeywordID int64 `gorm:"not null;uniqueIndex:idx_keyword_forum" json:"keyword_id"`
	ForumID   int64 `gorm:"not null;uniqueIndex:idx_keyword_forum" json:"forum_id"`
	Count     int64 `gorm:"not null;default:1" json:"count"`
}

func (KeywordForum) TableName() string {
	return "keyword_forums"
}

// KeywordPost counts keyword occurrences scoped to a post.
type KeywordPost struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	KeywordID int64 `gorm:"not null;uniqueIndex:idx_keyword_post" json:"keyword_id"`
	PostID    int64 `gorm:"not null;uniqueIndex:idx_keyword_post" json:"post_id"`
	Count     int64 `gorm:"not null;default:1" json:"count"`
}

func (KeywordPost) TableName() string {
	return "keyword_posts"
}
