package types

// Result summarizes one injection run.
type Result struct {
	// Added lists entries appended to the archive, in write order.
	Added []Addition

	// Skipped lists additions whose entry name was already in the archive.
	Skipped []Addition
}

// Total returns the number of candidate files seen.
func (r *Result) Total() int {
	return len(r.Added) + len(r.Skipped)
}
