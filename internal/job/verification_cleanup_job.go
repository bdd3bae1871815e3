package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type verificationSweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// VerificationCleanupJob removes email verifications whose link has expired.
type VerificationCleanupJob struct {
	sweeper verificationSweeper
}

func NewVerificationCleanupJob(sweeper verificationSweeper) *VerificationCleanupJob {
	return &VerificationCleanupJob{sweeper: sweeper}
}

func (j *VerificationCleanupJob) Name() string {
	return "verification_cleanup"
}

func (j *VerificationCleanupJob) Run(ctx context.Context) error {
	if j.sweeper == nil {
		return nil
	}
	removed, err := j.sweeper.SweepExpired(ctx)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("expired verifications removed", zap.Int64("count", removed))
	return nil
}
