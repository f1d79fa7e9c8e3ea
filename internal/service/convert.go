package service

import (
	"github.com/newsportal/internal/db"
	"github.com/newsportal/internal/news"
)

func authorFromModel(m db.Author) news.Author {
	return news.Author{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Bio:       m.Bio,
		AvatarURL: m.AvatarURL,
	}
}

func articleFromModel(m db.Article, views int64) news.Article {
	a := news.Article{
		ID:             m.ID,
		Slug:           m.Slug,
		Title:          m.Title,
		Subtitle:       m.Subtitle,
		Excerpt:        m.Excerpt,
		Content:        m.Content,
		ImageURL:       m.ImageURL,
		Category:       m.Category,
		Tags:           m.Tags,
		AuthorID:       m.AuthorID,
		PublishedAt:    m.PublishedAt,
		UpdatedAt:      m.UpdatedAt,
		Featured:       m.Featured,
		IsDraft:        m.IsDraft,
		SEOTitle:       m.SEOTitle,
		SEODescription: m.SEODescription,
		SEOImage:       m.SEOImage,
		Views:          views,
	}
	if m.Author != nil {
		author := authorFromModel(*m.Author)
		a.Author = &author
	}
	return a
}

// copyToModel writes the editable article fields onto m.
func copyToModel(a news.Article, m *db.Article) {
	m.Slug = a.Slug
	m.Title = a.Title
	m.Subtitle = a.Subtitle
	m.Excerpt = a.Excerpt
	m.Content = a.Content
	m.ImageURL = a.ImageURL
	m.Category = a.Category
	m.Tags = a.Tags
	m.AuthorID = a.AuthorID
	m.PublishedAt = a.PublishedAt
	m.Featured = a.Featured
	m.IsDraft = a.IsDraft
	m.SEOTitle = a.SEOTitle
	m.SEODescription = a.SEODescription
	m.SEOImage = a.SEOImage
}
