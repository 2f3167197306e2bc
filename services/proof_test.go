package services

import (
	"testing"
	"time"

	"eco-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStore stands in for R2 so the pipeline runs without object storage.
type stubStore struct {
	meta   ProofFileMetadata
	exists bool
}

func (s *stubStore) SignUpload(key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://upload.example/" + key, time.Now().Add(expiresIn), nil
}

func (s *stubStore) Stat(string) (ProofFileMetadata, bool, error) {
	return s.meta, s.exists, nil
}

func (s *stubStore) URL(key string) string {
	return "https://cdn.example/" + key
}

func freshPhotoMeta() ProofFileMetadata {
	created := time.Now().Add(-10 * time.Minute)
	return ProofFileMetadata{
		Size:        2 * 1024 * 1024,
		ContentType: "image/jpeg",
		TimeCreated: &created,
	}
}

func startedProgress(t *testing.T, db *gorm.DB, userID string) *models.MissionProgress {
	t.Helper()
	mission := createTestMission(t, db, nil)
	now := time.Now()
	progress := &models.MissionProgress{
		UserID:    userID,
		MissionID: mission.ID,
		Status:    models.StatusInProgress,
		StartedAt: &now,
	}
	require.NoError(t, db.Create(progress).Error)
	return progress
}

func TestCreateUploadURLRecordsPendingProof(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	progress := startedProgress(t, db, user.ID)
	svc := NewProofService(db, &stubStore{})

	grant, err := svc.CreateUploadURL(user.ID, progress.ID, "photo")
	require.NoError(t, err)
	assert.NotEmpty(t, grant.ProofID)
	assert.Contains(t, grant.UploadURL, grant.StorageKey)
	assert.True(t, grant.ExpiresAt.After(time.Now()))

	var proof models.Proof
	require.NoError(t, db.First(&proof, "id = ?", grant.ProofID).Error)
	assert.Equal(t, models.ProofPending, proof.Status)
	assert.Equal(t, progress.ID, proof.MissionProgressID)
	assert.Equal(t, grant.StorageKey, proof.StorageKey)
}

func TestCreateUploadURLRejectsForeignProgress(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)
	progress := startedProgress(t, db, owner.ID)
	svc := NewProofService(db, &stubStore{})

	_, err := svc.CreateUploadURL(intruder.ID, progress.ID, "photo")
	assert.ErrorIs(t, err, ErrProgressNotOwned)

	_, err = svc.CreateUploadURL(owner.ID, "00000000-0000-0000-0000-000000000000", "photo")
	assert.ErrorIs(t, err, ErrProgressNotFound)
}

func TestVerifyApprovesAndAdvancesProgress(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	progress := startedProgress(t, db, user.ID)
	svc := NewProofService(db, &stubStore{meta: freshPhotoMeta(), exists: true})

	grant, err := svc.CreateUploadURL(user.ID, progress.ID, "photo")
	require.NoError(t, err)

	report, err := svc.Verify(user.ID, grant.ProofID)
	require.NoError(t, err)
	assert.Equal(t, models.ProofApproved, report.Status)
	assert.GreaterOrEqual(t, report.AntiCheatScore, ApproveThreshold)
	assert.NotEmpty(t, report.Checks)

	var proof models.Proof
	require.NoError(t, db.First(&proof, "id = ?", grant.ProofID).Error)
	assert.Equal(t, models.ProofApproved, proof.Status)
	require.NotNil(t, proof.AntiCheatScore)
	assert.NotNil(t, proof.VerifiedAt)

	var reloaded models.MissionProgress
	require.NoError(t, db.First(&reloaded, "id = ?", progress.ID).Error)
	assert.Equal(t, models.StatusPendingReview, reloaded.Status)
}

func TestVerifyFailsWhenFileNeverLanded(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	progress := startedProgress(t, db, user.ID)
	svc := NewProofService(db, &stubStore{exists: false})

	grant, err := svc.CreateUploadURL(user.ID, progress.ID, "photo")
	require.NoError(t, err)

	_, err = svc.Verify(user.ID, grant.ProofID)
	assert.ErrorIs(t, err, ErrProofFileMissing)

	// proof stays PENDING for the sweeper to retry
	var proof models.Proof
	require.NoError(t, db.First(&proof, "id = ?", grant.ProofID).Error)
	assert.Equal(t, models.ProofPending, proof.Status)
}

func TestVerifyRejectsForeignProof(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db)
	intruder := createTestUser(t, db)
	progress := startedProgress(t, db, owner.ID)
	svc := NewProofService(db, &stubStore{meta: freshPhotoMeta(), exists: true})

	grant, err := svc.CreateUploadURL(owner.ID, progress.ID, "photo")
	require.NoError(t, err)

	_, err = svc.Verify(intruder.ID, grant.ProofID)
	assert.ErrorIs(t, err, ErrProofNotOwned)
}

func TestStalePendingFindsOldProofs(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	progress := startedProgress(t, db, user.ID)
	svc := NewProofService(db, &stubStore{})

	grant, err := svc.CreateUploadURL(user.ID, progress.ID, "photo")
	require.NoError(t, err)

	// a just-created proof is not stale yet
	stale, err := svc.StalePending(15*time.Minute, 10)
	require.NoError(t, err)
	assert.Empty(t, stale)

	old := time.Now().Add(-1 * time.Hour)
	require.NoError(t, db.Model(&models.Proof{}).Where("id = ?", grant.ProofID).
		Update("created_at", old).Error)

	stale, err = svc.StalePending(15*time.Minute, 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, grant.ProofID, stale[0].ID)
}
