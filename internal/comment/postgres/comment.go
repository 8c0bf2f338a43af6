package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/civic-issue-tracker/internal/comment"
	commentDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/comment"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *commentDatamodel.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*commentDatamodel.Comment, error) {
	var c commentDatamodel.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, comment.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CommentRepository) ListByIssue(ctx context.Context, issueID string) ([]*commentDatamodel.Comment, error) {
	var comments []*commentDatamodel.Comment
	err := r.db.WithContext(ctx).Where("issue_id = ?", issueID).Order("time ASC").Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&commentDatamodel.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return comment.ErrNotFound
	}
	return nil
}
