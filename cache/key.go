package cache

import (
	"fmt"
	"sort"
	"strings"
)

// BuildKey constructs a cache key from an entity name, an operation and an
// optional parameter set:
//
//	<entity>:<operation>
//	<entity>:<operation>:<k1=v1>&<k2=v2>...
//
// Parameter keys are sorted lexicographically before concatenation, so two
// logically identical parameter sets produce the same key regardless of
// construction order. The entity prefix is what pattern invalidation anchors
// on ("^<entity>:"), so entity names must not contain ':'.
func BuildKey(entity, operation string, params map[string]any) string {
	if len(params) == 0 {
		return entity + ":" + operation
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, params[k])
	}

	return entity + ":" + operation + ":" + strings.Join(pairs, "&")
}
