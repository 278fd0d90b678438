package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/actorlink/pkg/ingest"
	"github.com/OFFIS-RIT/actorlink/pkg/logger"
)

// IngestJobMsg asks a worker to ingest catalog IDs [From, To).
type IngestJobMsg struct {
	JobID       string `json:"job_id"`
	From        int64  `json:"from_tmdb_id"`
	To          int64  `json:"to_tmdb_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

func (m IngestJobMsg) Validate() error {
	if m.From < 0 || m.To <= m.From {
		return fmt.Errorf("invalid ingest range [%d, %d)", m.From, m.To)
	}
	return nil
}

func PublishIngestJob(ctx context.Context, pub Publisher, msg IngestJobMsg) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := PublishFIFO(ctx, pub, IngestQueue, body); err != nil {
		return fmt.Errorf("publish ingest job: %w", err)
	}
	logger.Info("[Queue] Ingest job published", "job_id", msg.JobID, "from", msg.From, "to", msg.To)
	return nil
}

// ErrMalformed marks messages that can never be processed. They skip the
// retry queue.
var ErrMalformed = errors.New("malformed message")

func DecodeIngestJob(body []byte) (IngestJobMsg, error) {
	var msg IngestJobMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return IngestJobMsg{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if err := msg.Validate(); err != nil {
		return IngestJobMsg{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return msg, nil
}

// IngestRunner is implemented by *ingest.Pipeline.
type IngestRunner interface {
	Run(ctx context.Context, from, to int64) (ingest.Report, error)
}

// ProcessIngestMessage decodes one ingest job and runs it.
func ProcessIngestMessage(ctx context.Context, runner IngestRunner, body []byte) error {
	msg, err := DecodeIngestJob(body)
	if err != nil {
		return err
	}
	logger.Info("[Queue] Processing ingest job", "job_id", msg.JobID, "from", msg.From, "to", msg.To)
	report, err := runner.Run(ctx, msg.From, msg.To)
	if err != nil {
		return err
	}
	logger.Info(
		"[Queue] Ingest job finished",
		"job_id", msg.JobID,
		"run_id", report.RunID,
		"saved", report.Saved,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return nil
}
