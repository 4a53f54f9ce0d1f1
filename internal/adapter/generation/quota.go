package generation

import "strings"

// quotaMarkers are the substrings LLM backends use to report quota or
// rate-limit conditions in their error bodies.
var quotaMarkers = []string{
	"429",
	"rate limit",
	"rate_limit",
	"quota",
	"resource exhausted",
	"too many requests",
}

// isQuotaError reports whether err looks like a quota/rate-limit response.
// The LangchainGo clients surface provider errors as plain strings, so this
// is a text match rather than a type check.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
