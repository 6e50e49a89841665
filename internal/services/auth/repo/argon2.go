package repo

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"querygate/internal/services/auth/domain"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Argon2Params are the cost parameters used when hashing a new password
type Argon2Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params follows the RFC 9106 second recommended option
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Time:        3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

// Argon2 accepts one username whose password is stored as an argon2id PHC string
type Argon2 struct {
	userName string
	hash     phc
}

// NewArgon2 parses encoded once so a malformed hash fails at startup
func NewArgon2(userName, encoded string) (*Argon2, error) {
	if userName == "" {
		return nil, errors.New("argon2 store: empty username")
	}
	p, err := parsePHC(encoded)
	if err != nil {
		return nil, err
	}
	return &Argon2{userName: userName, hash: p}, nil
}

// CheckLogin implements domain.CredentialStore
func (a *Argon2) CheckLogin(_ context.Context, c domain.Credentials) bool {
	computed := argon2.IDKey(
		[]byte(c.Password),
		a.hash.salt,
		a.hash.time,
		a.hash.memory,
		a.hash.parallelism,
		uint32(len(a.hash.hash)),
	)
	u := subtle.ConstantTimeCompare([]byte(c.UserName), []byte(a.userName))
	p := subtle.ConstantTimeCompare(computed, a.hash.hash)
	return u&p == 1
}

// HashPassword encodes password as an argon2id PHC string with a random salt
func HashPassword(password string, params Argon2Params) (string, error) {
	if password == "" {
		return "", errors.New("argon2: empty password")
	}
	salt := make([]byte, params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, params.KeyLength)
	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		params.Memory,
		params.Time,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func parsePHC(encoded string) (phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return phc{}, errors.New("argon2: invalid PHC format")
	}
	if parts[1] != algorithmID {
		return phc{}, errors.New("argon2: unsupported algorithm")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return phc{}, errors.New("argon2: invalid version")
	}
	if version != argon2.Version {
		return phc{}, errors.New("argon2: unsupported version")
	}

	var out phc
	for kv := range strings.SplitSeq(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return phc{}, errors.New("argon2: invalid params")
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil || n == 0 {
			return phc{}, fmt.Errorf("argon2: invalid %s", k)
		}
		switch k {
		case "m":
			out.memory = uint32(n)
		case "t":
			out.time = uint32(n)
		case "p":
			if n > 255 {
				return phc{}, errors.New("argon2: invalid p")
			}
			out.parallelism = uint8(n)
		default:
			return phc{}, fmt.Errorf("argon2: unknown param %s", k)
		}
	}
	if out.memory == 0 || out.time == 0 || out.parallelism == 0 {
		return phc{}, errors.New("argon2: missing params")
	}

	if out.salt, err = decodeB64(parts[4]); err != nil || len(out.salt) == 0 {
		return phc{}, errors.New("argon2: invalid salt")
	}
	if out.hash, err = decodeB64(parts[5]); err != nil || len(out.hash) == 0 {
		return phc{}, errors.New("argon2: invalid hash")
	}
	return out, nil
}

// decodeB64 accepts both the unpadded PHC form and padded standard base64
func decodeB64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
