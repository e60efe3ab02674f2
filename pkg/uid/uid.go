// Package uid generates and validates DICOM unique identifiers
package uid

import (
	"crypto/md5"
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxLength is the longest UID PS3.5 allows
const MaxLength = 64

// UUIDRoot is the arc under which UUID-derived UIDs live (PS3.5 B.2)
const UUIDRoot = "2.25"

// Generator produces globally unique UIDs
type Generator interface {
	NewUID() string
}

// UUIDGenerator derives UIDs from random (version 4) UUIDs: 2.25.<uuid as decimal>
type UUIDGenerator struct{}

func (UUIDGenerator) NewUID() string {
	return FromUUID(uuid.New())
}

// FromUUID renders u as a 2.25 UID
func FromUUID(u uuid.UUID) string {
	n := new(big.Int).SetBytes(u[:])
	return UUIDRoot + "." + n.String()
}

// Hash derives a stable UID from the given parts, so the same input always
// yields the same identifier
func Hash(parts ...string) string {
	hasher := md5.New()
	hasher.Write([]byte(strings.Join(parts, "\x00")))
	hash := hasher.Sum(nil)
	u, err := uuid.FromBytes(hash[:16])
	if err != nil {
		return ""
	}
	return FromUUID(u)
}

// PrefixGenerator builds UIDs as <prefix>.<timestamp>.<nanos>.<random> under
// an organization root. Falls back to a UUID-derived UID when the result
// would exceed MaxLength.
type PrefixGenerator struct {
	Prefix string
	Now    func() time.Time
}

func (g PrefixGenerator) NewUID() string {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	t := now()
	prefix := strings.TrimSuffix(g.Prefix, ".")
	s := fmt.Sprintf("%s.%s.%d.%d", prefix, t.Format("20060102150405"), t.Nanosecond(), rand.Intn(10000))
	if prefix == "" || len(s) > MaxLength {
		return UUIDGenerator{}.NewUID()
	}
	return s
}

// Validate checks UID syntax: at most 64 characters, dot separated numeric
// components, no empty components and no leading zeros
func Validate(s string) error {
	if s == "" {
		return errors.New("uid is empty")
	}
	if len(s) > MaxLength {
		return fmt.Errorf("uid %q is %d characters, max %d", s, len(s), MaxLength)
	}
	if s[0] == '.' || s[len(s)-1] == '.' {
		return fmt.Errorf("uid %q must not start or end with '.'", s)
	}
	for _, c := range strings.Split(s, ".") {
		if c == "" {
			return fmt.Errorf("uid %q has an empty component", s)
		}
		if strings.Trim(c, "0123456789") != "" {
			return fmt.Errorf("uid %q has non-numeric component %q", s, c)
		}
		if len(c) > 1 && c[0] == '0' {
			return fmt.Errorf("uid %q component %q has a leading zero", s, c)
		}
	}
	return nil
}
