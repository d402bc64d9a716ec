package batch

// ItemStatus is the processing outcome of a single import item.
type ItemStatus string

// Import item status values.
const (
	StatusOK ItemStatus = "ok"
	// StatusSkipped marks a recipe whose name already exists in the catalog.
	StatusSkipped ItemStatus = "skipped"
	StatusError   ItemStatus = "error"
)

// Result is the outcome of importing one recipe.
type Result struct {
	name   string
	id     int64
	status ItemStatus
	err    error
}

// NewOK creates a successful import result carrying the assigned id.
func NewOK(name string, id int64) Result { return Result{name: name, id: id, status: StatusOK} }

// NewSkipped creates a result for a recipe that was already present.
func NewSkipped(name string) Result { return Result{name: name, status: StatusSkipped} }

// NewError creates a failed import result.
func NewError(name string, err error) Result { return Result{name: name, status: StatusError, err: err} }

// Name returns the recipe name of the item.
func (r Result) Name() string { return r.name }

// ID returns the assigned recipe id, zero unless the status is ok.
func (r Result) ID() int64 { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts results by status.
type Summary struct {
	Imported int
	Skipped  int
	Failed   int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.status {
		case StatusOK:
			s.Imported++
		case StatusSkipped:
			s.Skipped++
		case StatusError:
			s.Failed++
		}
	}
	return s
}
