package telemetry

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"drive-canvas.klederson.com/internal/config"
)

// ErrBadIdentity is returned when no stable painter slot can be derived.
var ErrBadIdentity = errors.New("cannot derive painter slot")

// ParseIdentity maps a painter id such as "sim_3" to its slot in
// [0, config.PainterSlots). The id must end in a positive integer.
func ParseIdentity(id string) (int, error) {
	end := len(id)
	start := strings.LastIndexFunc(id, func(r rune) bool { return r < '0' || r > '9' }) + 1
	if start == end {
		return 0, fmt.Errorf("%w: %q has no trailing number", ErrBadIdentity, id)
	}
	n, err := strconv.Atoi(id[start:end])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrBadIdentity, id)
	}
	return (n - 1) % config.PainterSlots, nil
}

// IdentityKey derives a stable 64-bit constant from a painter id.
func IdentityKey(id string) uint64 {
	h := sha256.Sum256([]byte(id))
	return binary.BigEndian.Uint64(h[:8])
}
