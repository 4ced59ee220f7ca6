package services

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Owned is implemented by every per-user section row.
type Owned interface {
	SetOwner(id uint)
	OwnerID() uint
}

// SectionService is CRUD over one section table, always scoped to the owning user.
// T is the model struct; PT its pointer, which carries the Owner methods.
type SectionService[T any, PT interface {
	*T
	Owned
}] struct {
	db *gorm.DB
}

// NewSectionService creates a SectionService for model T.
func NewSectionService[T any, PT interface {
	*T
	Owned
}](db *gorm.DB) *SectionService[T, PT] {
	return &SectionService[T, PT]{db: db}
}

// List returns the user's rows in display order.
func (s *SectionService[T, PT]) List(ctx context.Context, userID uint) ([]T, error) {
	var rows []T
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("sort_order, id").Find(&rows).Error
	return rows, errors.Wrap(err, "list rows")
}

// Create inserts row owned by userID.
func (s *SectionService[T, PT]) Create(ctx context.Context, userID uint, row PT) error {
	row.SetOwner(userID)
	return errors.Wrap(s.db.WithContext(ctx).Create(row).Error, "create row")
}

// Get loads the row with id if it belongs to userID.
func (s *SectionService[T, PT]) Get(ctx context.Context, userID, id uint) (PT, error) {
	row := PT(new(T))
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(row).Error
	if err != nil {
		return nil, notFoundAs(err, ErrRecordNotFound, "load row")
	}
	return row, nil
}

// Save writes back a row previously returned by Get. Ownership cannot change.
func (s *SectionService[T, PT]) Save(ctx context.Context, userID uint, row PT) error {
	if row.OwnerID() != userID {
		return ErrRecordNotFound
	}
	return errors.Wrap(s.db.WithContext(ctx).Save(row).Error, "save row")
}

// Delete removes the row with id if it belongs to userID.
func (s *SectionService[T, PT]) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete row")
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
