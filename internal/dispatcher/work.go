package dispatcher

import "context"

// Work is one unit handed to a worker. Index is the position of the work in
// the batch passed to Run.
type Work struct {
	Index int
	Label string
	Do    func(ctx context.Context) error
}

// IsValid reports whether the work can be run.
func (w *Work) IsValid() bool {
	return w.Do != nil
}
