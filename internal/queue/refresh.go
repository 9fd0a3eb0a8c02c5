package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trialatlas/backend/internal/network"
	"github.com/trialatlas/backend/internal/trials"
	"github.com/trialatlas/backend/pkg/logger"
)

// RefreshMsg asks the worker to reload the trial dataset. Reason is
// free-text provenance for the log.
type RefreshMsg struct {
	Reason      string `json:"reason"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// ProcessRefresh reloads the dataset from the configured source and
// swaps it into the network service, invalidating cached snapshots.
func ProcessRefresh(
	ctx context.Context,
	source trials.Source,
	service *network.Service,
	msgBody string,
) error {
	var msg RefreshMsg
	if err := json.Unmarshal([]byte(msgBody), &msg); err != nil {
		return fmt.Errorf("unmarshal refresh message: %w", err)
	}

	logger.Info("[Queue] Refreshing trial dataset", "reason", msg.Reason)

	records, err := source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load trial records: %w", err)
	}

	service.SetRecords(records)
	logger.Info("[Queue] Trial dataset refreshed", "records", len(records))
	return nil
}
