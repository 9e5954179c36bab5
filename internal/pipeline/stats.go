package pipeline

// BatchStats tracks aggregate counters and byte totals across a batch run.
// It has a single writer: the orchestrator goroutine.
type BatchStats struct {
	Total   int
	Current int

	Succeeded int
	Failed    int
	Skipped   int

	// ArchiveIncomplete counts split jobs whose transcode succeeded but
	// whose original could not be moved into the archive folder.
	ArchiveIncomplete int

	TotalInputBytes  int64
	TotalOutputBytes int64
}
