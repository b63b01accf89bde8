package repository

import "farmadvisor/entities"

type ArticleRepository interface {
	Create(a *entities.KnowledgeArticle) error
	ListArticles() ([]entities.KnowledgeArticle, error)
}
