package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileStarted(info FileStartInfo) {
	for _, r := range c.reporters {
		r.FileStarted(info)
	}
}

func (c *CompositeReporter) FileProgress(snapshot ProgressSnapshot) {
	for _, r := range c.reporters {
		r.FileProgress(snapshot)
	}
}

func (c *CompositeReporter) FileCompleted(outcome FileOutcome) {
	for _, r := range c.reporters {
		r.FileCompleted(outcome)
	}
}

func (c *CompositeReporter) FileFailed(failure FileFailure) {
	for _, r := range c.reporters {
		r.FileFailed(failure)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
