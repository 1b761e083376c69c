package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sopas/backend/internal/domain/shared"
)

// SequenceWidth is the zero-padded width of the numeric part of an
// identifier. It is a formatting minimum, not a cap: past 999 the number
// simply grows wider.
const SequenceWidth = 3

// Identifier is a human-readable entity reference: a prefix followed by a
// zero-padded sequence number, e.g. "CU001" or "OID042".
type Identifier string

// FormatIdentifier composes an identifier from a prefix and sequence number.
func FormatIdentifier(prefix Prefix, seq int64) Identifier {
	return Identifier(fmt.Sprintf("%s%0*d", prefix, SequenceWidth, seq))
}

// String returns the identifier as a plain string.
func (id Identifier) String() string {
	return string(id)
}

// Sequence strips the prefix and parses the remainder as the sequence
// number. It fails when the identifier does not carry the given prefix or
// the remainder is not a positive integer.
func (id Identifier) Sequence(prefix Prefix) (int64, error) {
	rest, ok := strings.CutPrefix(string(id), string(prefix))
	if !ok || rest == "" {
		return 0, shared.NewDomainError("INVALID_IDENTIFIER",
			fmt.Sprintf("identifier %q does not match prefix %q", id, prefix))
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 1 {
		return 0, shared.NewDomainError("INVALID_IDENTIFIER",
			fmt.Sprintf("identifier %q has a malformed sequence number", id))
	}
	return n, nil
}
