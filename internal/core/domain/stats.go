package domain

// TaskStats is a snapshot of the board. Total and the status buckets count
// non-deleted rows only; Deleted counts rows with a deletion timestamp.
type TaskStats struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
	Cancelled  int64
	Overdue    int64
	DueToday   int64
	Deleted    int64
}
