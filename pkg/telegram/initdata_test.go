package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testBotToken = "12345:test-bot-token"

func signInitData(t *testing.T, botToken string, fields map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(fields))
	for key, value := range fields {
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}
	values.Set("hash", hash)
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":42,"username":"admin","first_name":"Ada","language_code":"ru"}`,
	})

	if err := VerifyInitData(initData, testBotToken, time.Hour); err != nil {
		t.Fatalf("valid init data rejected: %v", err)
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
	})

	err := VerifyInitData(initData, "12345:another-token", time.Hour)
	if !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
}

func TestVerifyInitDataTampered(t *testing.T) {
	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Unix(), 10),
		"user":      `{"id":42,"username":"admin"}`,
	})
	tampered := strings.Replace(initData, "admin", "evil1", 1)

	err := VerifyInitData(tampered, testBotToken, time.Hour)
	if !errors.Is(err, ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}
}

func TestVerifyInitDataExpired(t *testing.T) {
	initData := signInitData(t, testBotToken, map[string]string{
		"auth_date": strconv.FormatInt(time.Now().Add(-48*time.Hour).Unix(), 10),
	})

	err := VerifyInitData(initData, testBotToken, time.Hour)
	if !errors.Is(err, ErrAuthDateExpired) {
		t.Fatalf("expected ErrAuthDateExpired, got %v", err)
	}

	// maxAge <= 0 disables the freshness check.
	if err := VerifyInitData(initData, testBotToken, 0); err != nil {
		t.Fatalf("freshness check should be disabled: %v", err)
	}
}

func TestVerifyInitDataMissingInputs(t *testing.T) {
	if err := VerifyInitData("", testBotToken, time.Hour); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("empty init data: got %v", err)
	}
	if err := VerifyInitData("auth_date=1", "", time.Hour); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("empty bot token: got %v", err)
	}
	if err := VerifyInitData("auth_date=1", testBotToken, time.Hour); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("missing hash: got %v", err)
	}
}

func TestParseIdentity(t *testing.T) {
	initData := "user=" + url.QueryEscape(`{"id":42,"username":"admin","first_name":"Ada","last_name":"L","language_code":"ru"}`)

	identity, err := ParseIdentity(initData)
	if err != nil {
		t.Fatalf("ParseIdentity returned error: %v", err)
	}
	if !identity.Available || identity.UserID != 42 || identity.Username != "admin" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if identity.FirstName != "Ada" || identity.LastName != "L" || identity.Language != "ru" {
		t.Fatalf("profile fields lost: %+v", identity)
	}
}

func TestParseIdentityWithoutUser(t *testing.T) {
	identity, err := ParseIdentity("auth_date=1")
	if err != nil {
		t.Fatalf("missing user must not be an error: %v", err)
	}
	if identity.Available {
		t.Fatal("expected unavailable identity")
	}

	identity, err = ParseIdentity("user=" + url.QueryEscape(`{"id":0}`))
	if err != nil || identity.Available {
		t.Fatalf("zero user id must yield unavailable identity: %+v err=%v", identity, err)
	}
}

func TestParseIdentityMalformedUser(t *testing.T) {
	if _, err := ParseIdentity("user=not-json"); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}
}
