package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
	schemeID              = "argon2id"
)

// Config holds the Argon2id cost parameters a Hasher targets. Hashes stored
// under weaker parameters are reported by [Hasher.NeedsRehash].
type Config struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Hasher hashes and verifies passwords with Argon2id. A Hasher is immutable
// after construction and safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher validates cfg against hard lower bounds and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	return &Hasher{config: cfg}, nil
}

// Hash derives a fresh hash of secret under the current parameters with a
// newly generated salt. Two calls with the same secret never return the same
// string.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("password: empty secret")
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey(
		[]byte(secret),
		salt,
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		schemeID,
		argon2.Version,
		h.config.Memory,
		h.config.Time,
		h.config.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret matches the PHC-encoded hash. The comparison
// runs under the parameters embedded in the hash, not the Hasher's own, so
// hashes produced under older parameters still verify.
func (h *Hasher) Verify(secret, encoded string) (bool, error) {
	fields, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(secret),
		fields.salt,
		fields.time,
		fields.memory,
		fields.parallelism,
		uint32(len(fields.key)),
	)

	return subtle.ConstantTimeCompare(computed, fields.key) == 1, nil
}

// NeedsRehash reports whether encoded was produced under parameters weaker
// than the Hasher's current configuration. Callers re-hash after the next
// successful verification, not eagerly.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	fields, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	switch {
	case h.config.Memory > fields.memory:
		return true, nil
	case h.config.Time > fields.time:
		return true, nil
	case h.config.Parallelism > fields.parallelism:
		return true, nil
	case h.config.KeyLength != uint32(len(fields.key)):
		return true, nil
	}
	return false, nil
}

type phcFields struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func decodePHC(encoded string) (phcFields, error) {
	var out phcFields

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return out, errors.New("password: not a PHC string")
	}
	if parts[1] != schemeID {
		return out, errors.New("password: unsupported scheme")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return out, errors.New("password: missing version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return out, errors.New("password: unsupported argon2 version")
	}

	if err := parseCosts(parts[3], &out); err != nil {
		return out, err
	}

	salt, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return out, errors.New("password: bad salt encoding")
	}
	if uint32(len(salt)) < minSaltLength {
		return out, errors.New("password: salt too short")
	}
	out.salt = salt

	key, err := base64.StdEncoding.DecodeString(parts[5])
	if err != nil {
		return out, errors.New("password: bad key encoding")
	}
	if len(key) == 0 {
		return out, errors.New("password: empty key")
	}
	out.key = key

	return out, nil
}

func parseCosts(section string, out *phcFields) error {
	pairs := strings.Split(section, ",")
	if len(pairs) != 3 {
		return errors.New("password: bad cost section")
	}

	var haveM, haveT, haveP bool
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return errors.New("password: bad cost entry")
		}
		switch name {
		case "m":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v < uint64(minMemoryKB) {
				return errors.New("password: bad memory cost")
			}
			out.memory = uint32(v)
			haveM = true
		case "t":
			v, err := strconv.ParseUint(value, 10, 32)
			if err != nil || v < uint64(minTimeCost) {
				return errors.New("password: bad time cost")
			}
			out.time = uint32(v)
			haveT = true
		case "p":
			v, err := strconv.ParseUint(value, 10, 8)
			if err != nil || v < uint64(minParallelism) {
				return errors.New("password: bad parallelism cost")
			}
			out.parallelism = uint8(v)
			haveP = true
		default:
			return errors.New("password: unknown cost parameter")
		}
	}
	if !haveM || !haveT || !haveP {
		return errors.New("password: incomplete cost section")
	}
	return nil
}

func checkConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("password: memory must be >= 8192 KiB")
	}
	if cfg.Time < minTimeCost {
		return errors.New("password: time must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("password: parallelism must be >= 1")
	}
	if cfg.SaltLength < minSaltLength {
		return errors.New("password: salt length must be >= 16")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("password: key length must be >= 16")
	}
	return nil
}
