package main

import (
	"context"
	"testing"

	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedDemoDataIsIdempotent(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:seed-demo?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	ctx := context.Background()
	n, err := seedDemoData(ctx, gdb)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(demoArticles) {
		t.Fatalf("expected %d articles, got %d", len(demoArticles), n)
	}

	again, err := seedDemoData(ctx, gdb)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected second run to create nothing, got %d", again)
	}

	articles := service.NewArticleService(gdb, service.NewContentPolicy(), service.NewAnalyticsService(gdb))
	featured, err := articles.Featured(ctx)
	if err != nil {
		t.Fatalf("featured: %v", err)
	}
	if len(featured) != 2 {
		t.Fatalf("expected 2 featured articles, got %d", len(featured))
	}

	draft, err := articles.GetBySlug(ctx, "draft-transfer-window-preview")
	if err != nil {
		t.Fatalf("draft lookup: %v", err)
	}
	if !draft.IsDraft || draft.PublishedAt != nil {
		t.Fatalf("expected unpublished draft, got %+v", draft)
	}
}
