// workers/proof_sweeper.go
package workers

import (
	"log"
	"time"

	"eco-quest-system/services"

	"github.com/go-co-op/gocron/v2"
)

const (
	sweepInterval  = 5 * time.Minute
	staleAfter     = 15 * time.Minute
	sweepBatchSize = 50
)

// ProofSweeper re-verifies proofs stuck in PENDING: clients sometimes upload
// to the presigned URL but never call the verify endpoint. The sweep drives
// each stale proof through the normal verification path; proofs whose file
// never arrived stay PENDING and are picked up again next round.
type ProofSweeper struct {
	proofs *services.ProofService
	sched  gocron.Scheduler
}

func NewProofSweeper(proofService *services.ProofService) *ProofSweeper {
	return &ProofSweeper{proofs: proofService}
}

func (w *ProofSweeper) Start() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("[SWEEPER] failed to create scheduler: %v", err)
		return
	}
	w.sched = sched

	_, _ = sched.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(w.sweep),
	)
	sched.Start()
	log.Println("🔁 Proof sweeper started")
}

func (w *ProofSweeper) Stop() {
	if w.sched != nil {
		_ = w.sched.Shutdown()
	}
}

func (w *ProofSweeper) sweep() {
	proofs, err := w.proofs.StalePending(staleAfter, sweepBatchSize)
	if err != nil {
		log.Printf("[SWEEPER] failed to list stale proofs: %v", err)
		return
	}
	if len(proofs) == 0 {
		return
	}

	verified := 0
	for _, proof := range proofs {
		report, err := w.proofs.Verify(proof.UserID, proof.ID)
		if err != nil {
			if err == services.ErrProofFileMissing {
				continue
			}
			log.Printf("[SWEEPER] verify failed for proof %s: %v", proof.ID, err)
			continue
		}
		verified++
		log.Printf("[SWEEPER] proof %s verified: %s (score %.2f)", proof.ID, report.Status, report.AntiCheatScore)
	}

	if verified > 0 {
		log.Printf("✅ Proof sweep verified %d/%d stale proof(s)", verified, len(proofs))
	}
}
