package resolve

import (
	"log/slog"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/unicode/norm"
)

// Options controls a single resolution.
type Options struct {
	// Fuzzy enables the similarity-ranked fallback when no key matches
	// case-insensitively.
	Fuzzy  bool
	Logger *slog.Logger
}

// Normalize folds a user supplied name into the form used for exact matching.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(name)))
}

func foldKey(key string) string {
	return strings.ToLower(norm.NFC.String(key))
}

// Resolve finds the key of keys that name refers to. Keys are compared in
// order; the first case-insensitive match wins. With opts.Fuzzy set, the key
// with the strictly highest similarity ratio is returned instead, and the
// earliest key wins a tie. No minimum similarity is applied.
func Resolve(keys []string, name string, opts Options) (string, bool) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	normalized := Normalize(name)
	for _, key := range keys {
		if foldKey(key) == normalized {
			return key, true
		}
	}

	if !opts.Fuzzy {
		logger.Debug("resolve: no exact match", slog.String("query", name))
		fallbacks.WithLabelValues("disabled").Inc()
		return "", false
	}

	best, score, ok := bestMatch(keys, normalized)
	if !ok {
		logger.Debug("resolve: no similar key", slog.String("query", name), slog.Int("keys", len(keys)))
		fallbacks.WithLabelValues("miss").Inc()
		return "", false
	}

	logger.Debug("resolve: fuzzy match",
		slog.String("query", name),
		slog.String("resolved", best),
		slog.Float64("score", score),
	)
	fallbacks.WithLabelValues("hit").Inc()
	return best, true
}

func bestMatch(keys []string, normalized string) (string, float64, bool) {
	bestKey := ""
	bestScore := 0.0
	found := false
	for _, key := range keys {
		score := Ratio(normalized, foldKey(key))
		if score > bestScore {
			bestKey = key
			bestScore = score
			found = true
		}
	}
	return bestKey, bestScore, found
}

// Ratio is the Ratcliff/Obershelp similarity of a and b in [0, 1], computed
// over runes: twice the number of matching runes divided by the total length.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
