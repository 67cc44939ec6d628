package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"

	"reviewhub/internal/api/models"
)

// ConfirmationCodes derives single-use, time-limited confirmation codes
// from mutable user state. No code storage: a code is an HMAC over the
// user's identity plus the fields that change when the code is consumed,
// so confirming (or any later login) invalidates everything issued before.
type ConfirmationCodes struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewConfirmationCodes(secret string, ttl time.Duration) *ConfirmationCodes {
	// Expand the server secret into a dedicated MAC key so the JWT secret
	// and the code key never coincide.
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("reviewhub confirmation code v1"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		// sha256-based hkdf cannot fail to produce 32 bytes
		panic(err)
	}
	return &ConfirmationCodes{key: key, ttl: ttl, now: time.Now}
}

// Generate issues a code for the user's current state.
func (c *ConfirmationCodes) Generate(user *models.User) string {
	return c.codeAt(user, c.now().Unix())
}

// Verify checks a submitted code against the user's current state in
// constant time, rejecting expired or future timestamps.
func (c *ConfirmationCodes) Verify(user *models.User, code string) bool {
	tsPart, _, ok := strings.Cut(code, "-")
	if !ok {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}

	now := c.now().Unix()
	if ts > now || now-ts > int64(c.ttl.Seconds()) {
		return false
	}

	expected := c.codeAt(user, ts)
	return hmac.Equal([]byte(expected), []byte(code))
}

func (c *ConfirmationCodes) codeAt(user *models.User, ts int64) string {
	var lastLogin int64
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Unix()
	}

	mac := hmac.New(sha256.New, c.key)
	fmt.Fprintf(mac, "%d|%s|%t|%d|%d", user.ID, user.Email, user.Confirmed, lastLogin, ts)

	return strconv.FormatInt(ts, 36) + "-" + hex.EncodeToString(mac.Sum(nil)[:10])
}
