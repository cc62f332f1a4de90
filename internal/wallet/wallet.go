// Package wallet canonicalizes the wallet IDs users register and type
// in as referral codes. IDs that are TON addresses get one canonical
// friendly form, so "EQ…" and "UQ…" spellings of the same wallet map to
// the same account; anything else is treated as an opaque identifier.
package wallet

import (
	"strings"

	"github.com/xssnick/tonutils-go/address"
)

// Normalize trims the ID and, when it parses as a friendly-form TON
// address, returns the canonical bounceable spelling. Opaque IDs pass
// through unchanged so the game stays usable without a TON wallet.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	a, err := address.ParseAddr(id)
	if err != nil {
		return id
	}
	return a.Bounce(true).String()
}

// IsTONAddress reports whether the ID is a parseable friendly-form
// TON address.
func IsTONAddress(id string) bool {
	_, err := address.ParseAddr(strings.TrimSpace(id))
	return err == nil
}
