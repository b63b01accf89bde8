package entities

import "time"

// KnowledgeArticle is an ingested reference document; searchable alongside
// the built-in crop/pest/practice tables.
type KnowledgeArticle struct {
	ArticleID uint      `gorm:"primaryKey" json:"article_id"`
	Title     string    `json:"title"`
	SourceURL string    `json:"source_url"`
	Tags      string    `json:"tags"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
