package models

// Review is one direction of the mutual post-completion rating. The
// composite unique index scopes uniqueness to (engagement, reviewer,
// reviewed): two rows per engagement, one per direction.
type Review struct {
	BaseModel
	EngagementKind EngagementKind `gorm:"type:varchar(20);not null;uniqueIndex:idx_review_engagement_pair"`
	EngagementID   string         `gorm:"not null;uniqueIndex:idx_review_engagement_pair"`
	ReviewerID     string         `gorm:"not null;uniqueIndex:idx_review_engagement_pair"`
	ReviewedID     string         `gorm:"not null;uniqueIndex:idx_review_engagement_pair;index"`
	Rating         int            `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment        string         `gorm:"type:text"`
}
