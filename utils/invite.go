package utils

import (
	"crypto/rand"
	"math/big"
)

// inviteAlphabet skips 0/O and 1/I so codes read unambiguously when
// shared over chat or voice.
const inviteAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// InviteCodeLength is the length of generated invite codes.
const InviteCodeLength = 6

// GenerateInviteCode returns a short random code such as "7GX2MK".
// Uniqueness is the caller's problem; the pool registry retries on
// collision against its unique index.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	max := big.NewInt(int64(len(inviteAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = inviteAlphabet[n.Int64()]
	}
	return string(buf), nil
}
