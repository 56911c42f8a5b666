package layout

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/yourusername/wsmon/internal/models"
)

const (
	// MinKey and MaxKey bound the monitor-relative key
	MinKey = 1
	MaxKey = 9

	// blockSize is the workspace stride between monitors
	blockSize = 10
)

var localKeyPattern = regexp.MustCompile(`^[1-9]$`)

// ToGlobal maps a monitor index and local key to a sway workspace number.
// Index 0 keeps the key (1-9); index i > 0 yields i*10+key (11-19, 21-29, ...).
// key must already be in [1,9].
func ToGlobal(index, key int) int {
	if index == 0 {
		return key
	}
	return index*blockSize + key
}

// LocalKeyRange returns the first and last workspace reachable on a monitor
func LocalKeyRange(index int) (start, end int) {
	return ToGlobal(index, MinKey), ToGlobal(index, MaxKey)
}

// ParseLocalKey validates a key argument. Only a single digit 1-9 is accepted.
func ParseLocalKey(s string) (int, error) {
	if !localKeyPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: key must be a single digit 1-9, got %q", models.ErrInvalidArgument, s)
	}
	key, _ := strconv.Atoi(s)
	return key, nil
}
