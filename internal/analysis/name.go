package analysis

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CanonicalName trims a user-supplied region name and puts it in Unicode NFC,
// the form region names are stored in. "tarnogórski" typed with a combining
// accent then matches the stored name exactly.
func CanonicalName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
