package bulk

// Reduce collectively folds src with op, seeded with init, and returns the
// same total to every worker: op(init, op(src[0], ... src[n-1])). op must be
// associative. An empty src returns init.
//
// Each worker folds one contiguous block, then worker 0 folds the per-worker
// partials in index order and broadcasts the result, so the combination
// order matches a left-to-right sequential fold.
func Reduce[T any](w *Worker, src []T, init T, op func(T, T) T) T {
	g := w.group
	n := len(src)
	if n == 0 {
		return init
	}

	per := (n + g.size - 1) / g.size
	lo := min(per*w.index, n)
	hi := min(lo+per, n)

	var scratch []T
	if w.index == 0 {
		scratch = make([]T, g.size)
	}
	sums := broadcast(w, scratch)

	if hi > lo {
		x := src[lo]
		for _, v := range src[lo+1 : hi] {
			x = op(x, v)
		}
		sums[w.index] = x
	}
	w.Wait()

	var total T
	if w.index == 0 {
		active := (n + per - 1) / per
		total = init
		for i := 0; i < active; i++ {
			total = op(total, sums[i])
		}
	}
	return broadcast(w, total)
}
