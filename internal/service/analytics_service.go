package service

import (
	"context"
	"errors"
	"time"

	"github.com/newsportal/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultViewDedupWindow = 30 * time.Minute

// AnalyticsService keeps the per-article view counters.
type AnalyticsService struct {
	db          *gorm.DB
	dedupWindow time.Duration
}

// NewAnalyticsService counts a returning visitor again only after 30 minutes.
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb, dedupWindow: defaultViewDedupWindow}
}

// WithDedupWindow overrides the revisit window.
func (s *AnalyticsService) WithDedupWindow(d time.Duration) *AnalyticsService {
	if d <= 0 {
		return s
	}
	s.dedupWindow = d
	return s
}

// RecordView registers a visit and returns the updated counters. A visitor
// seen inside the dedup window refreshes its visit but does not add a page view.
func (s *AnalyticsService) RecordView(ctx context.Context, articleID, visitorID, userAgent string, now time.Time) (*db.ArticleStatistic, error) {
	if visitorID == "" || articleID == "" {
		return nil, errors.New("invalid visitor or article id")
	}

	var stats db.ArticleStatistic

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		visit := db.ArticleVisit{
			ArticleID:     articleID,
			VisitorID:     visitorID,
			UserAgent:     userAgent,
			LastViewedAt:  now,
			LastCountedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).Create(&visit)
		if insert.Error != nil {
			return insert.Error
		}

		isNewVisitor := insert.RowsAffected == 1
		counted := isNewVisitor
		if !isNewVisitor {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("article_id = ? AND visitor_id = ?", articleID, visitorID).
				First(&visit).Error; err != nil {
				return err
			}
			if now.Sub(visit.LastCountedAt) >= s.dedupWindow {
				counted = true
				visit.LastCountedAt = now
			}
			visit.LastViewedAt = now
			if userAgent != "" {
				visit.UserAgent = userAgent
			}
			if err := tx.Save(&visit).Error; err != nil {
				return err
			}
		}

		statsResult := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("article_id = ?", articleID).
			First(&stats)

		switch {
		case errors.Is(statsResult.Error, gorm.ErrRecordNotFound):
			stats = db.ArticleStatistic{ArticleID: articleID}
			if err := tx.Create(&stats).Error; err != nil {
				return err
			}
		case statsResult.Error != nil:
			return statsResult.Error
		}

		if counted {
			stats.PageViews++
		}
		if isNewVisitor {
			stats.UniqueVisitors++
		}
		stats.LastViewedAt = now

		return tx.Save(&stats).Error
	}); err != nil {
		return nil, err
	}

	return &stats, nil
}

// ViewCounts returns page views keyed by article id. Articles never viewed
// are absent from the map.
func (s *AnalyticsService) ViewCounts(ctx context.Context, articleIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(articleIDs))
	if len(articleIDs) == 0 {
		return result, nil
	}

	var stats []db.ArticleStatistic
	if err := s.db.WithContext(ctx).Where("article_id IN ?", articleIDs).Find(&stats).Error; err != nil {
		return nil, err
	}
	for _, stat := range stats {
		result[stat.ArticleID] = int64(stat.PageViews)
	}
	return result, nil
}

// ViewCount returns the page views of one article, zero when never viewed.
func (s *AnalyticsService) ViewCount(ctx context.Context, articleID string) (int64, error) {
	counts, err := s.ViewCounts(ctx, []string{articleID})
	if err != nil {
		return 0, err
	}
	return counts[articleID], nil
}

// Forget drops the counters of a deleted article.
func (s *AnalyticsService) Forget(tx *gorm.DB, articleID string) error {
	if err := tx.Where("article_id = ?", articleID).Delete(&db.ArticleVisit{}).Error; err != nil {
		return err
	}
	return tx.Where("article_id = ?", articleID).Delete(&db.ArticleStatistic{}).Error
}
