package evidence

import (
	"time"

	"go.uber.org/zap"
)

// Recorder appends events to a fixed log path and reports each write.
type Recorder struct {
	path   string
	logger *zap.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder for the log at path.
func NewRecorder(path string, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the log file the recorder writes to.
func (r *Recorder) Path() string {
	return r.path
}

// Record stamps and appends a single event.
func (r *Recorder) Record(service, profilePath string, scenarios []string, interpretation bool, outcome Outcome) (Event, error) {
	event := newEventAt(r.now(), service, profilePath, scenarios, interpretation, outcome)
	if err := Append(r.path, event); err != nil {
		r.logger.Error("failed to record evidence",
			zap.String("path", r.path),
			zap.Error(err))
		return event, err
	}
	r.logger.Debug("evidence recorded",
		zap.String("path", r.path),
		zap.String("service", service),
		zap.String("outcome", string(outcome)),
		zap.Strings("scenarios", event.Scenarios))
	return event, nil
}
