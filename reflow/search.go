package reflow

import (
	"context"

	"pager/config"
)

// measureFunc returns height of the block with only first keep runes left.
type measureFunc func(keep int) (float64, error)

// cutPoint returns number of trailing runes which have to be removed from
// block of n runes to make it no taller than target. At least one rune is
// always removed, all of them when nothing fits. Height is expected not to
// grow when runes are removed, both search modes give the same answer then.
func cutPoint(ctx context.Context, mode config.SearchMode, n int, target float64, measure measureFunc) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if mode == config.SearchModeLinear {
		for d := 1; d <= n; d++ {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			h, err := measure(n - d)
			if err != nil {
				return 0, err
			}
			if h <= target {
				return d, nil
			}
		}
		return n, nil
	}

	lo, hi := 1, n
	for lo < hi {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		mid := lo + (hi-lo)/2
		h, err := measure(n - mid)
		if err != nil {
			return 0, err
		}
		if h <= target {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo, nil
}
