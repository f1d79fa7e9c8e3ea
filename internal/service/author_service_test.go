package service

import (
	"context"
	"testing"

	"github.com/newsportal/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorServiceCRUD(t *testing.T) {
	gdb := setupTestDB(t)
	svc := NewAuthorService(gdb)
	ctx := context.Background()

	created, err := svc.Create(ctx, news.Author{Name: " Zoe ", Email: "Zoe@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Zoe", created.Name)
	assert.Equal(t, "zoe@example.com", created.Email)

	_, err = svc.Create(ctx, news.Author{Name: "Other", Email: "zoe@example.com"})
	assert.ErrorIs(t, err, news.ErrConflict)

	_, err = svc.Create(ctx, news.Author{Name: "Bad", Email: "no-at"})
	assert.True(t, news.IsValidation(err))

	updated, err := svc.Update(ctx, created.ID, news.AuthorUpdate{Bio: news.String("reporter")})
	require.NoError(t, err)
	assert.Equal(t, "Zoe", updated.Name)
	assert.Equal(t, "reporter", updated.Bio)

	_, err = svc.Create(ctx, news.Author{Name: "Adam", Email: "adam@example.com"})
	require.NoError(t, err)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Adam", list[0].Name)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, news.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), news.ErrNotFound)
}

func TestAuthorServiceDeleteRefusesAuthorWithArticles(t *testing.T) {
	gdb := setupTestDB(t)
	author := createAuthor(t, gdb, "busy")
	_, err := newArticleService(gdb).Create(context.Background(), ArticleInput{Article: news.Article{Title: "Mine", AuthorID: author.ID}})
	require.NoError(t, err)

	err = NewAuthorService(gdb).Delete(context.Background(), author.ID)
	assert.ErrorIs(t, err, news.ErrConflict)
}
