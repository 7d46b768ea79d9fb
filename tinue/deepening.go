package tinue

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Result is a search result certified at Depth plies.
type Result[T any] struct {
	Depth  int `json:"depth" yaml:"depth"`
	Result T   `json:"result" yaml:"result"`
}

type deepenStatus int

const (
	// keepDeepening: nothing at this depth, try the next one.
	keepDeepening deepenStatus = iota
	// deepenFound: the result at this depth is final.
	deepenFound
	// deepenAbort: stop without a result.
	deepenAbort
)

// deepen runs search at depths start, start+step, ... up to maxDepth and
// returns the first result it reports as found. The context is only checked
// between depths; a single depth always runs to completion.
func deepen[T any](ctx context.Context, start, step, maxDepth int,
	search func(depth int) (T, deepenStatus)) (*Result[T], error) {

	for depth := start; depth <= maxDepth; depth += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Trace().Int("depth", depth).Msg("deepening-iteratively")
		res, status := search(depth)
		switch status {
		case deepenFound:
			return &Result[T]{Depth: depth, Result: res}, nil
		case deepenAbort:
			return nil, nil
		}
	}
	return nil, nil
}
