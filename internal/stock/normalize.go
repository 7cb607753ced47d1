package stock

import "strings"

const (
	prefixAF    = "AF-"
	suffixBTY   = "-BTY"
	suffixGross = "-G"
)

// Normalize maps a raw product code to its canonical lookup key: trimmed,
// upper-cased, with the AF-<body>-BTY wrapper or the -G suffix removed.
// Stripping repeats until nothing changes, so Normalize is idempotent even for
// codes that carry both decorations, e.g. AF-X-G-BTY.
func Normalize(raw string) string {
	id := strings.ToUpper(strings.TrimSpace(raw))
	for {
		next := stripOnce(id)
		if next == id {
			return id
		}
		id = next
	}
}

func stripOnce(id string) string {
	if len(id) >= len(prefixAF)+len(suffixBTY)+1 &&
		strings.HasPrefix(id, prefixAF) && strings.HasSuffix(id, suffixBTY) {
		return id[len(prefixAF) : len(id)-len(suffixBTY)]
	}
	if strings.HasSuffix(id, suffixGross) {
		return id[:len(id)-len(suffixGross)]
	}
	return id
}
