package db

import "time"

// ArticleStatistic sums the page views of one article.
type ArticleStatistic struct {
	ID             uint   `gorm:"primaryKey"`
	ArticleID      string `gorm:"size:36;uniqueIndex"`
	PageViews      uint64 `gorm:"default:0"`
	UniqueVisitors uint64 `gorm:"default:0"`
	LastViewedAt   time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName pins the table name.
func (ArticleStatistic) TableName() string {
	return "article_statistics"
}

// ArticleVisit is the per-visitor history used to deduplicate views.
type ArticleVisit struct {
	ID            uint   `gorm:"primaryKey"`
	ArticleID     string `gorm:"size:36;uniqueIndex:idx_article_visitor"`
	VisitorID     string `gorm:"size:64;uniqueIndex:idx_article_visitor"`
	UserAgent     string
	LastViewedAt  time.Time
	LastCountedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName pins the table name.
func (ArticleVisit) TableName() string {
	return "article_visits"
}
