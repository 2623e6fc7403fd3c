package orders

import (
	"fmt"
	"strconv"
	"strings"
)

const sequencePadWidth = 5

// nextOrderNumber derives the next number in a prefix's sequence from the
// highest number issued so far. Each prefix (POD, POS) counts independently.
// The suffix is zero padded to five digits and keeps growing past 99999.
func nextOrderNumber(prefix, highest string) (string, error) {
	if highest == "" {
		return fmt.Sprintf("%s-%0*d", prefix, sequencePadWidth, 1), nil
	}

	rest, ok := strings.CutPrefix(highest, prefix+"-")
	if !ok {
		return "", fmt.Errorf("order number %q does not match prefix %q", highest, prefix)
	}
	seq, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return "", fmt.Errorf("order number %q has a non-numeric suffix: %w", highest, err)
	}

	return fmt.Sprintf("%s-%0*d", prefix, sequencePadWidth, seq+1), nil
}
