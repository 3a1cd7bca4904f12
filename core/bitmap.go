package core

import (
	"database/sql/driver"
	"encoding/hex"
	"errors"
	"fmt"
)

// MaxInstruments is the hard cap on listed instruments. Position ids run
// from 1 to MaxInstruments and index the user bitmaps below.
const MaxInstruments = 128

// Bitmap128 is a fixed width bitset keyed by instrument position id.
// It is persisted as a 32 char hex string.
type Bitmap128 [2]uint64

// Set sets the bit for the given position id (1 based).
func (b *Bitmap128) Set(position uint64) {
	if position == 0 || position > MaxInstruments {
		return
	}
	i := position - 1
	b[i/64] |= 1 << (i % 64)
}

// Clear clears the bit for the given position id.
func (b *Bitmap128) Clear(position uint64) {
	if position == 0 || position > MaxInstruments {
		return
	}
	i := position - 1
	b[i/64] &^= 1 << (i % 64)
}

// Get reports whether the bit for the given position id is set.
func (b Bitmap128) Get(position uint64) bool {
	if position == 0 || position > MaxInstruments {
		return false
	}
	i := position - 1
	return b[i/64]&(1<<(i%64)) != 0
}

// IsEmpty reports whether no bit is set.
func (b Bitmap128) IsEmpty() bool {
	return b[0] == 0 && b[1] == 0
}

// Value implements driver.Valuer
func (b Bitmap128) Value() (driver.Value, error) {
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(b[0] >> (8 * i))
		buf[8+i] = byte(b[1] >> (8 * i))
	}
	return hex.EncodeToString(buf[:]), nil
}

// Scan implements sql.Scanner
func (b *Bitmap128) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*b = Bitmap128{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("bitmap: unsupported scan type %T", value)
	}

	if s == "" {
		*b = Bitmap128{}
		return nil
	}

	buf, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(buf) != 16 {
		return errors.New("bitmap: invalid length")
	}

	*b = Bitmap128{}
	for i := 0; i < 8; i++ {
		b[0] |= uint64(buf[i]) << (8 * i)
		b[1] |= uint64(buf[8+i]) << (8 * i)
	}
	return nil
}
