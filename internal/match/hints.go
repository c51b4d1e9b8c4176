package match

import "strings"

// HintCache accumulates the supervisory organization codes of authors already
// confirmed in the current session. Accumulation is one-directional: hints
// influence the ranking of later authors but never reopen earlier decisions.
type HintCache struct {
	orgs map[string]struct{}
}

func NewHintCache() *HintCache {
	return &HintCache{orgs: make(map[string]struct{})}
}

// Add records an organization code. Empty codes are ignored.
func (h *HintCache) Add(orgCode string) {
	orgCode = strings.TrimSpace(orgCode)
	if orgCode == "" {
		return
	}
	h.orgs[orgCode] = struct{}{}
}

// Contains reports whether the organization code has been seen this session.
func (h *HintCache) Contains(orgCode string) bool {
	if h == nil {
		return false
	}
	_, ok := h.orgs[strings.TrimSpace(orgCode)]
	return ok
}

// Len returns the number of distinct organization codes collected.
func (h *HintCache) Len() int {
	if h == nil {
		return 0
	}
	return len(h.orgs)
}
