package services

import (
	"eco-quest-system/models"

	"gorm.io/gorm"
)

// GodService manages the user's patron-deity alignment. An alignment, once
// chosen, only changes when the caller passes an explicit force flag.
type GodService struct {
	DB *gorm.DB
}

func NewGodService(db *gorm.DB) *GodService {
	return &GodService{DB: db}
}

// GetSelectedGod returns the user's alignment, or nil when none is chosen
// (or the stored id no longer names a catalog deity).
func (s *GodService) GetSelectedGod(userID string) (*models.GodInfo, error) {
	var user models.User
	if err := s.DB.Select("selected_god").Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.SelectedGod == nil {
		return nil, nil
	}
	god, ok := models.GodByID(*user.SelectedGod)
	if !ok {
		return nil, nil
	}
	return &god, nil
}

// SelectGod aligns the user with a deity. Re-selecting the current deity
// fails; switching an existing alignment requires force=true.
func (s *GodService) SelectGod(userID, godID string, force bool) (*models.GodInfo, error) {
	god, ok := models.GodByID(godID)
	if !ok {
		return nil, ErrGodNotFound
	}

	var user models.User
	if err := s.DB.Select("id", "selected_god").Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.SelectedGod != nil && *user.SelectedGod == godID {
		return nil, ErrAlreadyAligned
	}
	if user.SelectedGod != nil && !force {
		return nil, ErrGodAlreadyChosen
	}

	if err := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("selected_god", godID).Error; err != nil {
		return nil, err
	}
	return &god, nil
}
