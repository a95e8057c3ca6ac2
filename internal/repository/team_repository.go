package repository

import (
	"context"
	"errors"

	"teamtrack/internal/model"

	"gorm.io/gorm"
)

type TeamRepository struct {
	db *gorm.DB
}

type TeamRepositoryInterface interface {
	CreateWithAdmin(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, id uint) (*model.Team, error)
	FindByName(ctx context.Context, name string) (*model.Team, error)
	AddMember(ctx context.Context, userID, teamID uint) error
	SetMemberRole(ctx context.Context, userID, teamID uint, role model.Role) error
	RemoveMember(ctx context.Context, userID, teamID uint) error
}

var _ TeamRepositoryInterface = (*TeamRepository)(nil)

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// CreateWithAdmin inserts the team and promotes its creator to admin in a
// single transaction, so a team never exists without its admin being a member.
func (r *TeamRepository) CreateWithAdmin(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrTeamNameTaken
			}
			return err
		}

		return tx.Model(&model.User{}).
			Where("id = ?", team.AdminID).
			Updates(map[string]interface{}{
				"team_id": team.ID,
				"role":    model.RoleAdmin,
			}).Error
	})
}

func (r *TeamRepository) GetByID(ctx context.Context, id uint) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *TeamRepository) FindByName(ctx context.Context, name string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&team).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// AddMember attaches an existing user to the team.
func (r *TeamRepository) AddMember(ctx context.Context, userID, teamID uint) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("team_id", teamID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotInTeam
	}
	return nil
}

// SetMemberRole updates the role of a user belonging to the given team.
// Scoping the update to the team keeps an admin from touching members
// of other teams.
func (r *TeamRepository) SetMemberRole(ctx context.Context, userID, teamID uint, role model.Role) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND team_id = ?", userID, teamID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotInTeam
	}
	return nil
}

// RemoveMember detaches the user from the given team. The role resets to
// member: roles only mean something inside a team.
func (r *TeamRepository) RemoveMember(ctx context.Context, userID, teamID uint) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND team_id = ?", userID, teamID).
		Updates(map[string]interface{}{
			"team_id": nil,
			"role":    model.RoleMember,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotInTeam
	}
	return nil
}
