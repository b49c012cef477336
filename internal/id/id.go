package id

import (
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

// Prefix marks identities derived by hashing rather than read from an ID
// column.
const Prefix = "H"

const (
	djb2Seed = 5381
	djb2Mult = 33
)

// Hash is the xor variant of djb2 over the UTF-16 code units of s: seeded
// 5381, hash = hash*33 ^ unit, wrapping at 32 bits. The result is rendered as
// lowercase hex without padding behind Prefix.
func Hash(s string) string {
	var h uint32 = djb2Seed
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*djb2Mult ^ uint32(u)
	}
	return fmt.Sprintf("%s%x", Prefix, h)
}

// Key builds the identity input "date|amount|description|institution".
func Key(date string, amount decimal.Decimal, description, institution string) string {
	return strings.Join([]string{date, amount.String(), description, institution}, "|")
}

// Transaction returns explicit when non-empty, otherwise the hash of the
// transaction's identity key.
func Transaction(explicit, date string, amount decimal.Decimal, description, institution string) string {
	if explicit != "" {
		return explicit
	}
	return Hash(Key(date, amount, description, institution))
}
