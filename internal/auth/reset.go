package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// ErrMalformedRef indicates an undecodable user reference.
var ErrMalformedRef = errors.New("malformed user reference")

// ResetTokenCodec derives stateless password-reset tokens. A token is an
// HMAC over the user id, the current password hash and a coarse time bucket,
// so no pending request is ever stored: changing the password (or letting the
// window lapse) is what invalidates outstanding tokens.
type ResetTokenCodec struct {
	secret []byte
	window time.Duration
	now    func() time.Time
}

// NewResetTokenCodec builds a codec with the process-wide secret and
// validity window.
func NewResetTokenCodec(secret string, window time.Duration) *ResetTokenCodec {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &ResetTokenCodec{secret: []byte(secret), window: window, now: time.Now}
}

// EncodeUserRef turns a user id into a URL-safe opaque reference. The
// encoding is transport safety, not secrecy.
func EncodeUserRef(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

// DecodeUserRef reverses EncodeUserRef.
func DecodeUserRef(ref string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(ref)
	if err != nil || len(raw) == 0 {
		return "", ErrMalformedRef
	}
	return string(raw), nil
}

// IssueToken derives a reset token for the user's current state. Nothing is
// persisted; the token encodes its own time bucket.
func (c *ResetTokenCodec) IssueToken(user *domain.User) string {
	bucket := c.bucket(c.now())
	return formatToken(bucket, c.mac(user, bucket))
}

// CheckToken recomputes the expected token from the user's current password
// hash and compares in constant time. Tokens from the current and the
// immediately preceding bucket are accepted so a token issued just before a
// bucket rollover is not rejected early.
func (c *ResetTokenCodec) CheckToken(user *domain.User, token string) bool {
	bucket, mac, err := parseToken(token)
	if err != nil {
		return false
	}
	current := c.bucket(c.now())
	if bucket != current && bucket != current-1 {
		return false
	}
	return hmac.Equal(mac, c.mac(user, bucket))
}

func (c *ResetTokenCodec) bucket(t time.Time) int64 {
	return t.Unix() / int64(c.window/time.Second)
}

func (c *ResetTokenCodec) mac(user *domain.User, bucket int64) []byte {
	h := hmac.New(sha256.New, c.secret)
	h.Write([]byte(user.ID))
	h.Write([]byte{0})
	h.Write([]byte(user.PasswordHash))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(bucket, 10)))
	return h.Sum(nil)
}

func formatToken(bucket int64, mac []byte) string {
	return strconv.FormatInt(bucket, 36) + "." + base64.RawURLEncoding.EncodeToString(mac)
}

func parseToken(token string) (int64, []byte, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return 0, nil, errors.New("bad token format")
	}
	bucket, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil {
		return 0, nil, err
	}
	mac, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, nil, err
	}
	if len(mac) != sha256.Size {
		return 0, nil, errors.New("bad mac length")
	}
	return bucket, mac, nil
}
