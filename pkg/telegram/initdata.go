package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidInitData = errors.New("invalid init data")
	ErrHashMismatch    = errors.New("init data hash mismatch")
	ErrAuthDateExpired = errors.New("init data auth_date expired")
)

// Identity is the host-bridge capability resolved from Mini-App init data.
// Available is false when the console runs outside Telegram (dev/preview);
// consumers must treat that as "no identity", not as an error.
type Identity struct {
	Available bool
	UserID    int64
	Username  string
	FirstName string
	LastName  string
	Language  string
}

// NoIdentity is the unavailable-bridge variant.
func NoIdentity() Identity {
	return Identity{}
}

type initDataUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

// VerifyInitData checks the Mini-App init data signature against the bot
// token using the WebAppData HMAC chain. maxAge <= 0 disables the auth_date
// freshness check.
func VerifyInitData(initData, botToken string, maxAge time.Duration) error {
	if strings.TrimSpace(initData) == "" || strings.TrimSpace(botToken) == "" {
		return ErrInvalidInitData
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return ErrInvalidInitData
	}

	hash := strings.TrimSpace(values.Get("hash"))
	if hash == "" {
		return ErrInvalidInitData
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	_, _ = secret.Write([]byte(strings.TrimSpace(botToken)))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	_, _ = mac.Write([]byte(dataCheckString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if len(expected) != len(hash) ||
		!hmac.Equal([]byte(strings.ToLower(expected)), []byte(strings.ToLower(hash))) {
		return ErrHashMismatch
	}

	if maxAge > 0 {
		authDate, err := ParseAuthDate(values.Get("auth_date"))
		if err != nil {
			return ErrInvalidInitData
		}
		if time.Since(authDate) > maxAge {
			return ErrAuthDateExpired
		}
	}

	return nil
}

// ParseIdentity extracts the user profile from verified init data. Init data
// without a user field yields the unavailable variant, not an error.
func ParseIdentity(initData string) (Identity, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return Identity{}, ErrInvalidInitData
	}

	rawUser := strings.TrimSpace(values.Get("user"))
	if rawUser == "" {
		return NoIdentity(), nil
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return Identity{}, ErrInvalidInitData
	}
	if user.ID == 0 {
		return NoIdentity(), nil
	}

	return Identity{
		Available: true,
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Language:  user.LanguageCode,
	}, nil
}

func ParseAuthDate(raw string) (time.Time, error) {
	authTS, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || authTS <= 0 {
		return time.Time{}, errors.New("invalid auth_date")
	}
	return time.Unix(authTS, 0).UTC(), nil
}
