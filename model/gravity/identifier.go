package gravity

import (
	"encoding/hex"
	"fmt"
)

// Identifier represents a 32-byte unique identifier for an on-chain entity:
// a validator node, a caller identity, or a content hash.
type Identifier [32]byte

// ZeroID is the lowest value in the 32-byte ID space. It is used as the
// proposer of null blocks, which carry no real proposer identity.
var ZeroID = Identifier{}

// HexStringToIdentifier converts a hex string to an identifier. The input
// must be 64 characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	// length is checked up front: hex.Decode would overrun the 32-byte
	// destination on longer inputs
	if len(hexString) != 64 {
		return identifier, fmt.Errorf("malformed input, expected 64 characters, got %d", len(hexString))
	}
	_, err := hex.Decode(identifier[:], []byte(hexString))
	if err != nil {
		return identifier, err
	}
	return identifier, nil
}

// MustHexStringToIdentifier panics if the input is not a valid identifier
// hex string. Intended for tests and hard-coded constants only.
func MustHexStringToIdentifier(hexString string) Identifier {
	id, err := HexStringToIdentifier(hexString)
	if err != nil {
		panic(err)
	}
	return id
}

// IsZero returns true if the identifier equals ZeroID.
func (id Identifier) IsZero() bool {
	return id == ZeroID
}

func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	var err error
	*id, err = HexStringToIdentifier(string(text))
	return err
}
