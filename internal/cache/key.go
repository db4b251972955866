package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
)

// Key builds "<documentId>:<operation>:<optionsHash>". The hash is stable
// across runs for the same options so different chunking or analysis
// parameters for one document never collide, while identical parameters
// always hit the same slot. A nil options map hashes to the empty string.
func Key(documentId, operation string, opts map[string]any) string {
	return fmt.Sprintf("%s:%s:%s", documentId, operation, optionsHash(opts))
}

// DocumentPrefix is the invalidation prefix covering every operation and
// options variant cached for a document.
func DocumentPrefix(documentId string) string {
	return documentId + ":"
}

func optionsHash(opts map[string]any) string {
	if len(opts) == 0 {
		return ""
	}

	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		val, err := json.Marshal(opts[k])
		if err != nil {
			val = []byte(fmt.Sprintf("%v", opts[k]))
		}
		fmt.Fprintf(h, "%s=%s;", k, val)
	}
	return fmt.Sprintf("%x", h.Sum64())
}
