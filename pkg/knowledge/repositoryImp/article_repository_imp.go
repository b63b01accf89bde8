package repositoryImp

import (
	"gorm.io/gorm"

	"farmadvisor/entities"
	"farmadvisor/pkg/knowledge/repository"
)

type articleRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ArticleRepository { return &articleRepo{db} }

func (r *articleRepo) Create(a *entities.KnowledgeArticle) error { return r.db.Create(a).Error }

func (r *articleRepo) ListArticles() ([]entities.KnowledgeArticle, error) {
	var out []entities.KnowledgeArticle
	if err := r.db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
