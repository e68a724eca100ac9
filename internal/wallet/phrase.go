// Package wallet generates the recovery phrase handed to a buyer after a
// confirmed deposit.
package wallet

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// PhraseLength is the number of words in a generated phrase.
const PhraseLength = 12

// wordPool holds the vocabulary phrases are sampled from. Words are drawn
// independently with replacement, so repeats within a phrase are allowed.
var wordPool = []string{
	"abandon", "ability", "able", "about", "above", "absent", "absorb", "abstract",
	"absurd", "abuse", "access", "accident", "account", "accuse", "achieve", "acid",
	"acoustic", "acquire", "across", "act", "action", "actor", "actress", "actual",
	"adapt", "add", "addict", "address", "adjust", "admit", "adult", "advance",
	"advice", "aerobic", "affair", "afford", "afraid", "again", "agent", "agree",
	"ahead", "aim", "air", "airport", "aisle", "alarm", "album", "alcohol",
	"alert", "alien", "all", "alley", "allow", "almost", "alone", "alpha",
	"already", "also", "alter", "always", "amateur", "amazing", "among", "amount",
}

// NewPhrase samples a fresh recovery phrase from the word pool using a
// cryptographic randomness source.
func NewPhrase() ([]string, error) {
	poolSize := big.NewInt(int64(len(wordPool)))
	phrase := make([]string, PhraseLength)
	for i := range phrase {
		n, err := rand.Int(rand.Reader, poolSize)
		if err != nil {
			return nil, fmt.Errorf("generate wallet phrase: %w", err)
		}
		phrase[i] = wordPool[n.Int64()]
	}
	return phrase, nil
}
