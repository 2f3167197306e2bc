package services

import (
	"encoding/json"

	"eco-quest-system/models"

	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Profile is the user's aggregate view with the intra-level XP breakdown
type Profile struct {
	models.User
	XPProgress LevelProgress `json:"xp_progress"`
}

// GetProfile loads the user with their level-progress block.
func (s *UserService) GetProfile(userID string) (*Profile, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &Profile{
		User:       user,
		XPProgress: ProgressWithinLevel(user.XP, user.Level),
	}, nil
}

// UpdateProfile changes username/email, rejecting values already taken by
// another user.
func (s *UserService) UpdateProfile(userID string, username, email *string) (*models.User, error) {
	if username != nil || email != nil {
		query := s.DB.Model(&models.User{}).Where("id <> ?", userID)
		switch {
		case username != nil && email != nil:
			query = query.Where("username = ? OR email = ?", *username, *email)
		case username != nil:
			query = query.Where("username = ?", *username)
		default:
			query = query.Where("email = ?", *email)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrProfileTaken
		}
	}

	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	if err := s.DB.Save(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrProfileTaken
		}
		return nil, err
	}
	return &user, nil
}

// UpdateDeviceInfo stores the device id and a JSON blob of device details.
func (s *UserService) UpdateDeviceInfo(userID string, deviceID *string, deviceInfo map[string]any) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if deviceID != nil {
		user.DeviceID = deviceID
	}
	if deviceInfo != nil {
		raw, err := json.Marshal(deviceInfo)
		if err != nil {
			return nil, err
		}
		str := string(raw)
		user.DeviceInfo = &str
	}
	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
