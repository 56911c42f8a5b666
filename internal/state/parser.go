package state

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yourusername/wsmon/internal/logging"
	"github.com/yourusername/wsmon/internal/models"
)

// ParseOrdering reads ordering entries from r.
// Supported line formats:
//   - "eDP-1"                 - identifier only
//   - "eDP-1,0,0,true"        - identifier, position and primary flag
//   - "DP-1,1920"             - trailing fields may be omitted
//
// Blank lines and lines starting with '#' are ignored. A line is skipped, and
// reported through the returned line numbers, only when its identifier is
// unusable. Bad position or primary fields are zeroed and the identifier is
// kept. Repeated identifiers keep their first occurrence.
func ParseOrdering(r io.Reader) ([]models.OrderingEntry, []int, error) {
	var entries []models.OrderingEntry
	var skipped []int
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := ParseEntry(line)
		if err != nil {
			logging.Warn().Int("line", lineNo).Err(err).Msg("skipping malformed ordering line")
			skipped = append(skipped, lineNo)
			continue
		}
		if seen[entry.Name] {
			logging.Debug().Int("line", lineNo).Str("output", entry.Name).Msg("duplicate ordering entry ignored")
			continue
		}
		seen[entry.Name] = true
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return entries, skipped, fmt.Errorf("failed to scan ordering: %w", err)
	}

	return entries, skipped, nil
}

// ParseEntry parses a single non-comment line. Only an empty identifier or
// one containing whitespace is an error. The other fields never affect
// monitor order, so an unparsable x or y reads as 0, any primary value other
// than "true" reads as false, and fields past the fourth are ignored.
func ParseEntry(line string) (models.OrderingEntry, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	name := parts[0]
	if name == "" {
		return models.OrderingEntry{}, fmt.Errorf("missing output name")
	}
	if strings.ContainsAny(name, " \t") {
		return models.OrderingEntry{}, fmt.Errorf("output name %q contains whitespace", name)
	}

	entry := models.OrderingEntry{Name: name}
	if len(parts) > 1 {
		entry.X = parseCoord(name, "x", parts[1])
	}
	if len(parts) > 2 {
		entry.Y = parseCoord(name, "y", parts[2])
	}
	if len(parts) > 3 {
		entry.Primary = parsePrimary(name, parts[3])
	}
	if len(parts) > 4 {
		logging.Debug().Str("output", name).Strs("extra", parts[4:]).Msg("ignoring extra ordering fields")
	}

	return entry, nil
}

func parseCoord(name, field, value string) int64 {
	if value == "" {
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn().Str("output", name).Str("field", field).Str("value", value).Msg("invalid ordering position, using 0")
		return 0
	}
	return n
}

func parsePrimary(name, value string) bool {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "", "false":
		return false
	}
	logging.Warn().Str("output", name).Str("value", value).Msg("invalid primary flag, using false")
	return false
}

// FormatEntry renders an entry in the four-field form
func FormatEntry(e models.OrderingEntry) string {
	return fmt.Sprintf("%s,%d,%d,%t", e.Name, e.X, e.Y, e.Primary)
}
