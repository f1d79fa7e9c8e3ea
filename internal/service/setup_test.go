package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/news"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func newArticleService(gdb *gorm.DB) *ArticleService {
	return NewArticleService(gdb, NewContentPolicy(), NewAnalyticsService(gdb))
}

func createAuthor(t *testing.T, gdb *gorm.DB, name string) news.Author {
	t.Helper()
	author, err := NewAuthorService(gdb).Create(context.Background(), news.Author{
		Name:  name,
		Email: fmt.Sprintf("%s-%d@example.com", name, time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("create author: %v", err)
	}
	return author
}
