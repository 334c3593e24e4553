package healthcheck

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// statusUpdateTag identifies a healthcheck status frame on the sync
// channel, distinguishing it from any other frame type a caller might
// multiplex over the same channel.
const statusUpdateTag byte = 1

// StatusUpdate is the wire record for one status transition. Field order
// here is the wire order: stdlib encoding/json already preserves struct
// declaration order, so no third-party encoder is needed to pin it down.
type StatusUpdate struct {
	Type        string `json:"type"`
	ContainerID string `json:"container_id"`
	Status      string `json:"status"`
	ExitCode    int    `json:"exit_code"`
	Timestamp   int64  `json:"timestamp"`
}

// Reporter serializes status transitions and writes them to a SyncWriter.
// Write failures are logged and swallowed: a report that can't be delivered
// must never take down the Timer that produced it.
type Reporter struct {
	writer SyncWriter
	log    *logrus.Entry
}

// NewReporter returns a Reporter writing frames to writer.
func NewReporter(writer SyncWriter, log *logrus.Entry) *Reporter {
	return &Reporter{writer: writer, log: log}
}

// Send marshals and writes one StatusUpdate for containerID.
func (r *Reporter) Send(containerID string, status Status, exitCode int) {
	update := StatusUpdate{
		Type:        "healthcheck_status",
		ContainerID: containerID,
		Status:      status.String(),
		ExitCode:    exitCode,
		Timestamp:   time.Now().Unix(),
	}

	payload, err := json.Marshal(update)
	if err != nil {
		r.log.WithError(err).Error("failed to marshal status update")
		return
	}

	if err := r.writer.WriteFramed(statusUpdateTag, payload); err != nil {
		r.log.WithError(fmt.Errorf("%w: %v", ErrReportWriteFailure, err)).
			WithField("containerID", containerID).
			Error("failed to write status update")
	}
}
