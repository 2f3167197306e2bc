package services

import (
	"fmt"
	"time"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProofStore is the narrow object-storage surface the proof pipeline needs.
type ProofStore interface {
	SignUpload(key, contentType string, expiresIn time.Duration) (uploadURL string, expiresAt time.Time, err error)
	Stat(key string) (meta ProofFileMetadata, exists bool, err error)
	URL(key string) string
}

// ProofService runs the proof upload/verify pipeline: presigned upload,
// PENDING proof row, then anti-cheat verification once the file lands.
type ProofService struct {
	DB    *gorm.DB
	Store ProofStore
}

func NewProofService(db *gorm.DB, store ProofStore) *ProofService {
	return &ProofService{DB: db, Store: store}
}

const uploadURLTTL = time.Hour

// UploadGrant is what the client needs to push proof media to storage
type UploadGrant struct {
	ProofID    string    `json:"proof_id"`
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// CreateUploadURL verifies the mission progress belongs to the caller, then
// presigns an upload and records a PENDING proof row.
func (s *ProofService) CreateUploadURL(userID, missionProgressID, proofType string) (*UploadGrant, error) {
	var progress models.MissionProgress
	if err := s.DB.Where("id = ?", missionProgressID).First(&progress).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}
	if progress.UserID != userID {
		return nil, ErrProgressNotOwned
	}

	ext, contentType := "jpg", "image/jpeg"
	if proofType != "photo" {
		ext, contentType = "mp4", "video/mp4"
	}
	key := fmt.Sprintf("proofs/%s/%s-%d.%s", userID, proofType, time.Now().UnixNano(), ext)

	uploadURL, expiresAt, err := s.Store.SignUpload(key, contentType, uploadURLTTL)
	if err != nil {
		return nil, err
	}

	proof := models.Proof{
		ID:                uuid.NewString(),
		UserID:            userID,
		MissionProgressID: missionProgressID,
		Type:              proofType,
		StorageURL:        s.Store.URL(key),
		StorageKey:        key,
		Status:            models.ProofPending,
	}
	if err := s.DB.Create(&proof).Error; err != nil {
		return nil, err
	}

	return &UploadGrant{
		ProofID:    proof.ID,
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresAt:  expiresAt,
	}, nil
}

// VerificationReport is the outcome of verifying one proof
type VerificationReport struct {
	ProofID        string             `json:"proof_id"`
	Status         models.ProofStatus `json:"status"`
	AntiCheatScore float64            `json:"anti_cheat_score"`
	VerifiedAt     time.Time          `json:"verified_at"`
	Checks         []AntiCheatCheck   `json:"checks"`
}

// Verify confirms the upload landed, scores it, and transitions the proof.
// An APPROVED proof moves its mission progress to PENDING_REVIEW. A REJECTED
// score does not touch the mission progress — that wiring is reserved for a
// future proof-rejection path.
func (s *ProofService) Verify(userID, proofID string) (*VerificationReport, error) {
	var proof models.Proof
	if err := s.DB.Where("id = ?", proofID).First(&proof).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProofNotFound
		}
		return nil, err
	}
	if proof.UserID != userID {
		return nil, ErrProofNotOwned
	}

	meta, exists, err := s.Store.Stat(proof.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProofFileMissing
	}

	result := RunAntiCheatChecks(proof.Type, meta)
	newStatus := ClassifyScore(result.Score)

	now := time.Now()
	proof.Status = newStatus
	proof.AntiCheatScore = &result.Score
	proof.VerifiedAt = &now
	if err := s.DB.Save(&proof).Error; err != nil {
		return nil, err
	}

	if newStatus == models.ProofApproved {
		if err := s.DB.Model(&models.MissionProgress{}).
			Where("id = ? AND status <> ?", proof.MissionProgressID, models.StatusCompleted).
			Update("status", models.StatusPendingReview).Error; err != nil {
			return nil, err
		}
	}

	return &VerificationReport{
		ProofID:        proof.ID,
		Status:         proof.Status,
		AntiCheatScore: result.Score,
		VerifiedAt:     now,
		Checks:         result.Checks,
	}, nil
}

// GetProof returns a proof owned by the caller, with its mission context.
func (s *ProofService) GetProof(userID, proofID string) (*models.Proof, *models.Mission, error) {
	var proof models.Proof
	if err := s.DB.Where("id = ?", proofID).First(&proof).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrProofNotFound
		}
		return nil, nil, err
	}
	if proof.UserID != userID {
		return nil, nil, ErrProofNotOwned
	}

	var progress models.MissionProgress
	if err := s.DB.Where("id = ?", proof.MissionProgressID).First(&progress).Error; err != nil {
		return &proof, nil, nil
	}
	var mission models.Mission
	if err := s.DB.Where("id = ?", progress.MissionID).First(&mission).Error; err != nil {
		return &proof, nil, nil
	}
	return &proof, &mission, nil
}

// StalePending lists PENDING proofs older than the cutoff for the sweeper.
func (s *ProofService) StalePending(olderThan time.Duration, limit int) ([]models.Proof, error) {
	var proofs []models.Proof
	err := s.DB.Where("status = ? AND created_at <= ?", models.ProofPending, time.Now().Add(-olderThan)).
		Order("created_at ASC").
		Limit(limit).
		Find(&proofs).Error
	return proofs, err
}
