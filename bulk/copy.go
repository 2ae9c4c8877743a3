package bulk

// CopyN collectively copies the first n elements of src into dst. Each
// worker moves one contiguous block; the trailing barrier makes the whole
// destination visible to every worker on return, so callers may read any
// part of dst immediately.
//
// Like all collectives, CopyN must be called by every worker of the group
// with the same arguments.
func CopyN[T any](w *Worker, src, dst []T, n int) {
	size := w.group.size
	per := (n + size - 1) / size
	lo := min(per*w.index, n)
	hi := min(lo+per, n)
	copy(dst[lo:hi], src[lo:hi])
	w.Wait()
}
