package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"eco-quest-system/models"
)

// Basic anti-cheat checks for MVP.
// This is a fixed heuristic placeholder, not a learned model. Advanced checks
// (ML-based image analysis, GPS verification) can be added later.

// AntiCheatCheck is one independent verdict contributing to the overall score
type AntiCheatCheck struct {
	Name    string  `json:"name"`
	Passed  bool    `json:"passed"`
	Score   float64 `json:"score"` // 0.0 - 1.0
	Message string  `json:"message,omitempty"`
}

// AntiCheatResult is the unweighted average of all checks, rounded to two
// decimals
type AntiCheatResult struct {
	Score  float64          `json:"score"`
	Checks []AntiCheatCheck `json:"checks"`
}

// ProofFileMetadata is the narrow slice of object-storage metadata the
// scorer needs
type ProofFileMetadata struct {
	Size        int64
	ContentType string
	TimeCreated *time.Time
}

// Classification thresholds: >= ApproveThreshold auto-approves, below
// RejectThreshold auto-rejects, anything between stays PENDING.
const (
	ApproveThreshold = 0.7
	RejectThreshold  = 0.3
)

const maxProofAge = 24 * time.Hour

// RunAntiCheatChecks scores submitted proof media. Deterministic: the same
// inputs always produce the same score.
func RunAntiCheatChecks(proofType string, meta ProofFileMetadata) AntiCheatResult {
	var checks []AntiCheatCheck

	// Check 1: file size in range
	minSize, maxSize := int64(1024), int64(10*1024*1024) // 1KB - 10MB for photos
	if proofType != "photo" {
		minSize, maxSize = 100*1024, 100*1024*1024 // 100KB - 100MB for video
	}
	sizeOK := meta.Size >= minSize && meta.Size <= maxSize
	sizeMsg := "File size valid"
	if meta.Size < minSize {
		sizeMsg = "File too small"
	} else if meta.Size > maxSize {
		sizeMsg = "File too large"
	}
	checks = append(checks, AntiCheatCheck{
		Name:    "file_size",
		Passed:  sizeOK,
		Score:   boolScore(sizeOK),
		Message: sizeMsg,
	})

	// Check 2: content type matches the expected proof type
	expected := []string{"image/jpeg", "image/jpg", "image/png"}
	if proofType != "photo" {
		expected = []string{"video/mp4", "video/mpeg"}
	}
	typeOK := false
	for _, t := range expected {
		if strings.Contains(strings.ToLower(meta.ContentType), t) {
			typeOK = true
			break
		}
	}
	checks = append(checks, AntiCheatCheck{
		Name:    "content_type",
		Passed:  typeOK,
		Score:   boolScore(typeOK),
		Message: "Expected " + proofType + " but got " + meta.ContentType,
	})

	// Check 3: file age, when the storage backend reports a creation time.
	// Old files are slightly suspicious (0.5), not outright wrong.
	if meta.TimeCreated != nil {
		age := time.Since(*meta.TimeCreated)
		fresh := age <= maxProofAge
		score := 1.0
		if !fresh {
			score = 0.5
		}
		checks = append(checks, AntiCheatCheck{
			Name:    "file_age",
			Passed:  fresh,
			Score:   score,
			Message: fmt.Sprintf("File created %d hours ago", int(age.Hours())),
		})
	}

	// Placeholder for advanced checks (ML-based image analysis, etc.) —
	// fixed score until a real analyzer exists.
	checks = append(checks, AntiCheatCheck{
		Name:    "advanced_analysis",
		Passed:  true,
		Score:   0.8,
		Message: "Advanced analysis not implemented (MVP placeholder)",
	})

	sum := 0.0
	for _, c := range checks {
		sum += c.Score
	}
	overall := math.Round(sum/float64(len(checks))*100) / 100

	return AntiCheatResult{Score: overall, Checks: checks}
}

// ClassifyScore maps an anti-cheat score onto a proof status.
func ClassifyScore(score float64) models.ProofStatus {
	switch {
	case score >= ApproveThreshold:
		return models.ProofApproved
	case score < RejectThreshold:
		return models.ProofRejected
	default:
		return models.ProofPending
	}
}

func boolScore(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.0
}
