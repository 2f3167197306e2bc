package services

import (
	"log"
	"math"
	"time"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// MissionService governs the mission-attempt lifecycle:
// NOT_STARTED (no row) → IN_PROGRESS → PENDING_REVIEW → COMPLETED.
// FAILED exists in the schema but no transition here produces it.
type MissionService struct {
	DB          *gorm.DB
	Rewards     *RewardService
	Progression *ProgressionService
	Badges      *BadgeService
	Map         *MapService
}

func NewMissionService(db *gorm.DB, rewards *RewardService, progression *ProgressionService, badges *BadgeService, mapSvc *MapService) *MissionService {
	return &MissionService{
		DB:          db,
		Rewards:     rewards,
		Progression: progression,
		Badges:      badges,
		Map:         mapSvc,
	}
}

// MissionFilter narrows ListMissions
type MissionFilter struct {
	Type     string
	Category string
	God      string
	Region   string
	Page     int
	Limit    int
}

// MissionView is a catalog entry annotated with the caller's progress and
// unlock state
type MissionView struct {
	models.Mission
	IsUnlocked bool                    `json:"is_unlocked"`
	Progress   *models.MissionProgress `json:"progress"`
}

// ListMissions returns active missions with the user's progress and the
// unlock computation applied.
func (s *MissionService) ListMissions(userID string, filter MissionFilter) ([]MissionView, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	query := s.DB.Model(&models.Mission{}).Where("is_active = ?", true)
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.God != "" {
		query = query.Where("god = ?", filter.God)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var missions []models.Mission
	if err := query.Order("created_at DESC").
		Limit(filter.Limit).Offset((filter.Page - 1) * filter.Limit).
		Find(&missions).Error; err != nil {
		return nil, 0, err
	}

	var user models.User
	if err := s.DB.Select("corruption_cleared").Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	missionIDs := make([]string, 0, len(missions))
	for _, m := range missions {
		missionIDs = append(missionIDs, m.ID)
	}
	var progresses []models.MissionProgress
	if len(missionIDs) > 0 {
		if err := s.DB.Where("user_id = ? AND mission_id IN ?", userID, missionIDs).
			Find(&progresses).Error; err != nil {
			return nil, 0, err
		}
	}
	progressByMission := make(map[string]*models.MissionProgress, len(progresses))
	for i := range progresses {
		progressByMission[progresses[i].MissionID] = &progresses[i]
	}

	completedIDs, err := s.completedMissionIDs(userID)
	if err != nil {
		return nil, 0, err
	}

	views := make([]MissionView, 0, len(missions))
	for _, m := range missions {
		unlocked := true
		if m.UnlocksAfterMissionID != nil && !completedIDs[*m.UnlocksAfterMissionID] {
			unlocked = false
		}
		if m.RequiresCorruptionCleared && user.CorruptionCleared < models.CorruptionClearedUnlockThreshold {
			unlocked = false
		}
		views = append(views, MissionView{
			Mission:    m,
			IsUnlocked: unlocked,
			Progress:   progressByMission[m.ID],
		})
	}
	return views, total, nil
}

func (s *MissionService) completedMissionIDs(userID string) (map[string]bool, error) {
	var rows []models.MissionProgress
	if err := s.DB.Select("mission_id").
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(rows))
	for _, r := range rows {
		ids[r.MissionID] = true
	}
	return ids, nil
}

// Start begins (or restarts) the user's attempt. A fresh attempt gets a new
// row with progress 0; restarting an incomplete attempt re-enters IN_PROGRESS
// with a fresh startedAt but keeps the prior progress value.
func (s *MissionService) Start(userID, missionID string) (*models.MissionProgress, *models.Mission, error) {
	var mission models.Mission
	if err := s.DB.Where("id = ?", missionID).First(&mission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrMissionNotFound
		}
		return nil, nil, err
	}
	if !mission.IsActive {
		return nil, nil, ErrMissionInactive
	}

	var user models.User
	if err := s.DB.Select("corruption_cleared").Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	if mission.UnlocksAfterMissionID != nil {
		var count int64
		if err := s.DB.Model(&models.MissionProgress{}).
			Where("user_id = ? AND mission_id = ? AND status = ?",
				userID, *mission.UnlocksAfterMissionID, models.StatusCompleted).
			Count(&count).Error; err != nil {
			return nil, nil, err
		}
		if count == 0 {
			return nil, nil, ErrMissionLocked
		}
	}
	if mission.RequiresCorruptionCleared && user.CorruptionCleared < models.CorruptionClearedUnlockThreshold {
		return nil, nil, ErrCorruptionLocked
	}

	now := time.Now()
	var progress models.MissionProgress
	err := s.DB.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&progress).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		progress = models.MissionProgress{
			ID:        uuid.NewString(),
			UserID:    userID,
			MissionID: missionID,
			Status:    models.StatusInProgress,
			Progress:  0,
			StartedAt: &now,
		}
		if err := s.DB.Create(&progress).Error; err != nil {
			if isDuplicateErr(err) {
				// concurrent start created the row; fall through to restart it
				return s.Start(userID, missionID)
			}
			return nil, nil, err
		}
	case err != nil:
		return nil, nil, err
	case progress.Status == models.StatusCompleted:
		return nil, nil, ErrAlreadyCompleted
	default:
		progress.Status = models.StatusInProgress
		progress.StartedAt = &now
		if err := s.DB.Save(&progress).Error; err != nil {
			return nil, nil, err
		}
	}

	return &progress, &mission, nil
}

// UpdateProgress sets the attempt's 0-100 progress value. Hitting 100 parks
// the attempt in PENDING_REVIEW; anything lower keeps it IN_PROGRESS.
func (s *MissionService) UpdateProgress(userID, missionID string, value int) (*models.MissionProgress, error) {
	if value < 0 || value > 100 {
		return nil, ErrInvalidProgress
	}

	var progress models.MissionProgress
	if err := s.DB.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&progress).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if progress.Status == models.StatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	progress.Progress = value
	if value == 100 {
		progress.Status = models.StatusPendingReview
	} else {
		progress.Status = models.StatusInProgress
	}
	if err := s.DB.Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

// completionEffect is one step of the post-completion cascade. Effects run
// with independent failure isolation: a failed effect is logged under its own
// name and the next one still runs.
type completionEffect struct {
	name string
	run  func() error
}

// Complete marks the attempt COMPLETED (irreversible) and then runs the
// reward cascade best-effort. The state transition is the durable fact of
// record; reward delivery is a secondary concern, so the completion still
// reports success even if every side effect fails. There is no retry or
// reconciliation job for failed effects.
func (s *MissionService) Complete(userID, missionID string) (*models.MissionProgress, *models.Mission, error) {
	var progress models.MissionProgress
	if err := s.DB.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&progress).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrProgressNotFound
		}
		return nil, nil, err
	}
	if progress.Status == models.StatusCompleted {
		return nil, nil, ErrAlreadyCompleted
	}
	if progress.Status == models.StatusNotStarted {
		return nil, nil, ErrNotStarted
	}

	var mission models.Mission
	if err := s.DB.Where("id = ?", missionID).First(&mission).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrMissionNotFound
		}
		return nil, nil, err
	}

	now := time.Now()
	progress.Status = models.StatusCompleted
	progress.Progress = 100
	progress.CompletedAt = &now
	if err := s.DB.Save(&progress).Error; err != nil {
		return nil, nil, err
	}

	s.runCompletionCascade(userID, &mission, &progress)
	return &progress, &mission, nil
}

// runCompletionCascade executes the follow-on effects of a completed
// mission. Even if the coins reward hits the ledger's duplicate guard (a
// concurrent double-complete), the remaining effects still run.
func (s *MissionService) runCompletionCascade(userID string, mission *models.Mission, progress *models.MissionProgress) {
	xpAwarded := 50 + int(math.Round(float64(mission.RewardAmount)/10))

	effects := []completionEffect{
		{
			name: "coins_reward",
			run: func() error {
				_, err := s.Rewards.IssueReward(userID, progress.ID, mission.RewardAmount, models.RewardTypeCoins, "")
				return err
			},
		},
		{
			name: "xp_award",
			run: func() error {
				_, err := s.Progression.AwardXP(userID, xpAwarded, "mission_"+mission.Code)
				return err
			},
		},
		{
			name: "badge_check",
			run: func() error {
				_, err := s.Badges.EvaluateAndAward(userID)
				return err
			},
		},
	}

	if mission.IsCorruptionMission && mission.CorruptionLevel > 0 {
		effects = append(effects,
			completionEffect{
				name: "eco_karma",
				run:  func() error { return s.Progression.AddEcoKarma(userID, mission.CorruptionLevel) },
			},
			completionEffect{
				name: "corruption_counter",
				run:  func() error { return s.Progression.AddCorruptionCleared(userID, mission.CorruptionLevel) },
			},
		)
		if mission.Region != nil {
			effects = append(effects, completionEffect{
				name: "region_clear",
				run: func() error {
					_, err := s.Map.ApplyMissionCorruptionClear(userID, *mission.Region, mission.CorruptionLevel)
					return err
				},
			})
		}
	}

	for _, effect := range effects {
		if err := effect.run(); err != nil {
			log.Printf("[MISSION] completion effect %q failed (user %s, mission %s): %v",
				effect.name, userID, mission.ID, err)
		}
	}
}

// GetProgress returns the user's attempt on a mission, if any.
func (s *MissionService) GetProgress(userID, missionID string) (*models.MissionProgress, error) {
	var progress models.MissionProgress
	if err := s.DB.Where("user_id = ? AND mission_id = ?", userID, missionID).First(&progress).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// CreateMission authors a new catalog entry (admin surface). The code is
// slugged from the title.
func (s *MissionService) CreateMission(m *models.Mission) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Code == "" {
		m.Code = slug.Make(m.Title)
	}
	if err := s.DB.Create(m).Error; err != nil {
		if isDuplicateErr(err) {
			m.Code = slug.Make(m.Title) + "-" + m.ID[:8]
			return s.DB.Create(m).Error
		}
		return err
	}
	return nil
}
