package datasus

// FetchStatus classifies the outcome of fetching one (UF, year) scope.
type FetchStatus int

const (
	// FetchOK means the scope produced at least one raw record.
	FetchOK FetchStatus = iota
	// FetchEmpty means the source had no records for the scope.
	FetchEmpty
	// FetchFailed means a network or parse error prevented the fetch.
	FetchFailed
)

// FetchResult is the typed outcome of a scope fetch. Exactly one of Table
// or Err is meaningful, depending on Status.
type FetchResult struct {
	Status FetchStatus
	Table  *Table
	Err    error
}

// ResultRows wraps a non-empty table as a successful fetch.
func ResultRows(t *Table) FetchResult {
	return FetchResult{Status: FetchOK, Table: t}
}

// ResultEmpty marks a scope with no records at the source.
func ResultEmpty() FetchResult {
	return FetchResult{Status: FetchEmpty}
}

// ResultFailed marks a scope whose fetch errored.
func ResultFailed(err error) FetchResult {
	return FetchResult{Status: FetchFailed, Err: err}
}
