package session

import (
	"sync"

	"github.com/sushant-bot/HONEY-POT/pkg/intel"
)

// Index is the global intelligence index: (kind, normalized value) mapped
// to the set of sessions that produced it. A value seen in more than one
// session is a cross-session link, the strongest confirmation signal the
// system has.
//
// Operations are short read-modify-writes guarded by one mutex; nothing
// here ever blocks on I/O.
type Index struct {
	mu       sync.Mutex
	sessions map[indexKey]map[string]struct{}
}

type indexKey struct {
	Kind  intel.Kind
	Value string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		sessions: make(map[indexKey]map[string]struct{}),
	}
}

// Record registers extracted items under the session id. Idempotent:
// recording the same (kind, value, session) repeatedly changes nothing.
func (ix *Index) Record(sessionID string, items map[intel.Kind][]intel.Item) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	for _, kind := range intel.Kinds {
		for _, item := range items[kind] {
			key := indexKey{Kind: kind, Value: item.Value}
			set, ok := ix.sessions[key]
			if !ok {
				set = make(map[string]struct{})
				ix.sessions[key] = set
			}
			set[sessionID] = struct{}{}
		}
	}
}

// CrossLinks returns, for each given item whose value appears in more than
// one session, the total session count. Values seen in a single session
// are omitted.
func (ix *Index) CrossLinks(items map[intel.Kind][]intel.Item) map[intel.Kind]map[string]int {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	linked := make(map[intel.Kind]map[string]int)
	for _, kind := range intel.Kinds {
		for _, item := range items[kind] {
			set := ix.sessions[indexKey{Kind: kind, Value: item.Value}]
			if len(set) > 1 {
				if linked[kind] == nil {
					linked[kind] = make(map[string]int)
				}
				linked[kind][item.Value] = len(set)
			}
		}
	}
	return linked
}

// SessionCount returns how many sessions have produced the value.
func (ix *Index) SessionCount(kind intel.Kind, value string) int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return len(ix.sessions[indexKey{Kind: kind, Value: value}])
}
