package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamtrack/internal/model"

	"gorm.io/gorm"
)

type MeetingRepository struct {
	db *gorm.DB
}

type MeetingRepositoryInterface interface {
	CreateWithParticipants(ctx context.Context, meeting *model.Meeting, participantIDs []uint) error
	GetByID(ctx context.Context, id uint) (*model.Meeting, error)
	GetForUser(ctx context.Context, userID uint) ([]model.Meeting, error)
	Delete(ctx context.Context, id uint) error
	GetStartingBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Meeting, error)
}

var _ MeetingRepositoryInterface = (*MeetingRepository)(nil)

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// CreateWithParticipants checks every participant for an overlapping meeting
// and, when none conflicts, persists the meeting together with its
// participant links. The whole operation runs in one transaction so a
// concurrent create cannot slip a conflicting meeting between the check and
// the insert.
func (r *MeetingRepository) CreateWithParticipants(ctx context.Context, meeting *model.Meeting, participantIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, userID := range participantIDs {
			conflict, err := hasScheduleConflict(tx, userID, meeting.StartTime, meeting.EndTime)
			if err != nil {
				return err
			}
			if conflict {
				return fmt.Errorf("%w: user %d", ErrMeetingConflict, userID)
			}
		}

		if err := tx.Create(meeting).Error; err != nil {
			return err
		}

		for _, userID := range participantIDs {
			if err := tx.Exec(
				"INSERT INTO meeting_participants (meeting_id, user_id) VALUES (?, ?)",
				meeting.ID, userID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// hasScheduleConflict reports whether the user participates in any meeting
// overlapping [start, end). Half-open semantics: back-to-back meetings do
// not conflict; an exact duplicate interval always does.
func hasScheduleConflict(tx *gorm.DB, userID uint, start, end time.Time) (bool, error) {
	var count int64
	err := tx.Model(&model.Meeting{}).
		Joins("JOIN meeting_participants mp ON mp.meeting_id = meetings.id").
		Where("mp.user_id = ?", userID).
		Where("(start_time < ? AND end_time > ?) OR (start_time = ? AND end_time = ?)",
			end, start, start, end).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetByID retrieves a meeting with its creator and participants
func (r *MeetingRepository) GetByID(ctx context.Context, id uint) (*model.Meeting, error) {
	var meeting model.Meeting
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Participants").
		First(&meeting, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, result.Error
	}
	return &meeting, nil
}

// GetForUser retrieves meetings the user participates in, earliest first
func (r *MeetingRepository) GetForUser(ctx context.Context, userID uint) ([]model.Meeting, error) {
	var meetings []model.Meeting
	result := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Participants").
		Joins("JOIN meeting_participants mp ON mp.meeting_id = meetings.id").
		Where("mp.user_id = ?", userID).
		Order("meetings.start_time").
		Find(&meetings)
	if result.Error != nil {
		return nil, result.Error
	}
	return meetings, nil
}

// Delete removes the meeting and its participant links
func (r *MeetingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM meeting_participants WHERE meeting_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Meeting{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMeetingNotFound
		}
		return nil
	})
}

// GetStartingBetween retrieves the user's meetings starting within [from, to).
// Used by the calendar view.
func (r *MeetingRepository) GetStartingBetween(ctx context.Context, userID uint, from, to time.Time) ([]model.Meeting, error) {
	var meetings []model.Meeting
	result := r.db.WithContext(ctx).
		Joins("JOIN meeting_participants mp ON mp.meeting_id = meetings.id").
		Where("mp.user_id = ? AND meetings.start_time >= ? AND meetings.start_time < ?", userID, from, to).
		Order("meetings.start_time").
		Find(&meetings)
	if result.Error != nil {
		return nil, result.Error
	}
	return meetings, nil
}
