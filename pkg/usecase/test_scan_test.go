package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"github.com/m-mizutani/scanstream/pkg/repository/memory"
	"github.com/m-mizutani/scanstream/pkg/usecase"
)

// brokenVulnStore accepts everything except vulnerability batches.
type brokenVulnStore struct {
	interfaces.ScanRepository
}

func (x *brokenVulnStore) BatchCreateVulnerabilities(ctx context.Context, scanID types.ScanID, vulns []*model.Vulnerability) error {
	return errors.New("disk full")
}

func TestCreateTestScanFailureMarksScanFailed(t *testing.T) {
	ctx := testContext()
	b := newBroadcaster()
	uc := usecase.New(infra.New(
		infra.WithScanRepository(&brokenVulnStore{ScanRepository: memory.New()}),
		infra.WithBroadcaster(b),
	))
	actor := types.UserID("tester")

	_, err := uc.CreateTestScan(ctx, actor, model.CreateTestScanInput{})
	gt.Error(t, err)

	scans := gt.R1(uc.ListScans(ctx, actor)).NoError(t)
	gt.V(t, len(scans)).Equal(1)
	gt.V(t, scans[0].Status).Equal(types.ScanStatusFailed)
	gt.V(t, scans[0].CompletedAt).NotEqual(nil)
	gt.V(t, scans[0].CompletedAt.Equal(testNow)).Equal(true)

	gt.V(t, len(b.PublishCompleteCalls())).Equal(0)
	gt.V(t, len(b.PublishVulnerabilityCalls())).Equal(0)
}
