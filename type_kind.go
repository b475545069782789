package vdatax

import "fmt"

// Kind identifies the economic nature of a transaction.
type Kind string

const (
	// Acquire is a purchase of an asset (BUY).
	Acquire Kind = "ACQUIRE"
	// Dispose is a sale or any other transfer for consideration (SELL).
	Dispose Kind = "DISPOSE"
	// Move is a transfer between wallets of the same owner (TRANSFER).
	Move Kind = "MOVE"
	// Income is an asset received as income: airdrop, staking reward, salary.
	Income Kind = "INCOME"
)

// kindAliases maps the exchange vocabulary onto kinds.
var kindAliases = map[string]Kind{
	"ACQUIRE":  Acquire,
	"BUY":      Acquire,
	"DISPOSE":  Dispose,
	"SELL":     Dispose,
	"MOVE":     Move,
	"TRANSFER": Move,
	"INCOME":   Income,
}

// ParseKind parses a kind or one of its aliases (BUY, SELL, TRANSFER).
// Unknown spellings are rejected, a kind is never guessed.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is one of the four recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case Acquire, Dispose, Move, Income:
		return true
	}
	return false
}

// Label returns the exchange vocabulary for k (BUY, SELL, TRANSFER, INCOME).
func (k Kind) Label() string {
	switch k {
	case Acquire:
		return "BUY"
	case Dispose:
		return "SELL"
	case Move:
		return "TRANSFER"
	case Income:
		return "INCOME"
	default:
		return "UNKNOWN"
	}
}
