package entity

import "time"

// Forum represents a discussion forum owned by the host application. The
// analyzer only ever reads these rows.
type Forum struct {
	ID       int64     `gorm:"primaryKey" json:"id"`
	CourseID int64     `gorm:"not null;index" json:"course_id"`
	Name     string    `gorm:"not null" json:"name"`
	Type     string    `json:"type"`
	Created  time.Time `gorm:"autoCreateTime" json:"created"`
}

// TableName specifies the table name for the Forum model.
func (Forum) TableName() string {
	return "forums"
}

// ForumDiscussion represents a discussion thread within a forum.
type ForumDiscussion struct {
	ID      int64     `gorm:"primaryKey" json:"id"`
	ForumID int64     `gorm:"not null;index" json:"forum_id"`
	Name    string    `json:"name"`
	Created time.Time `gorm:"autoCreateTime" json:"created"`
}

func (ForumDiscussion) TableName() string {
	return "forum_discussions"
}

// ForumPost represents a single post in a discussion.
type ForumPost struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	DiscussionID int64     `gorm:"not null;index" json:"discussion_id"`
	UserID       int64     `json:"user_id"`
	Subject      string    `json:"subject"`
	Message      string    `gorm:"type:text" json:"message"`
	Created      time.Time `gorm:"autoCreateTime" json:"created"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}
