package reporter

// Reporter is the observer interface for batch progress. The orchestrator
// emits immutable snapshots and never blocks on an implementation; all
// display state belongs to the reporter.
type Reporter interface {
	BatchStarted(info BatchStartInfo)
	FileStarted(info FileStartInfo)
	FileProgress(snapshot ProgressSnapshot)
	FileCompleted(outcome FileOutcome)
	FileFailed(failure FileFailure)
	Warning(message string)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) BatchStarted(BatchStartInfo)    {}
func (NullReporter) FileStarted(FileStartInfo)      {}
func (NullReporter) FileProgress(ProgressSnapshot)  {}
func (NullReporter) FileCompleted(FileOutcome)      {}
func (NullReporter) FileFailed(FileFailure)         {}
func (NullReporter) Warning(string)                 {}
func (NullReporter) BatchComplete(BatchSummary)     {}
