package postgres

import (
	"context"

	"gorm.io/gorm"

	timelineDatamodel "github.com/frahmantamala/civic-issue-tracker/internal/core/datamodel/timeline"
)

type TimelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

func (r *TimelineRepository) Insert(ctx context.Context, e *timelineDatamodel.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *TimelineRepository) ListByIssue(ctx context.Context, issueID string) ([]*timelineDatamodel.Entry, error) {
	var entries []*timelineDatamodel.Entry
	err := r.db.WithContext(ctx).
		Where("issue_id = ?", issueID).
		Order("time ASC").
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}
