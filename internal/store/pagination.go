package store

// ListOptions windows a listing. Offset and Limit apply after ordering, and
// Reverse flips the ordering before the window is taken.
type ListOptions struct {
	Offset  int
	Limit   int  // Zero means no limit
	Reverse bool
}

// Window returns the half-open range [start, end) that the options select
// from a result set of length n.
func (o ListOptions) Window(n int) (start, end int) {
	start = max(o.Offset, 0)
	if start > n {
		start = n
	}
	end = n
	if o.Limit > 0 && start+o.Limit < n {
		end = start + o.Limit
	}
	return start, end
}

// Apply returns the window of items selected by the options. Items must
// already be in their final order, Reverse included.
func Apply[T any](items []T, opts ListOptions) []T {
	start, end := opts.Window(len(items))
	return items[start:end]
}
