package bulk

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxEntryName = 64

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// EntryName derives a filesystem-safe archive name (without extension) from a
// row's content. Accents are folded first so "Café" becomes "Cafe"; every
// other character outside [A-Za-z0-9_-] becomes '-'. Rows that leave nothing
// behind are named after their 1-based position.
func EntryName(content string, index int) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, content)
	if err != nil {
		folded = content
	}

	safe := unsafeChars.ReplaceAllString(folded, "-")
	if len(safe) > maxEntryName {
		safe = safe[:maxEntryName]
	}
	if safe == "" {
		return "qr-" + strconv.Itoa(index+1)
	}
	return safe
}

// ArchiveName is the download name of a run's archive: the upload's base
// name with its extension swapped for .zip.
func ArchiveName(upload string) string {
	base := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "qrs"
	}
	return base + ".zip"
}
