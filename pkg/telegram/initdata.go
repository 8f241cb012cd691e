// Package telegram validates Mini App init data signed by the Telegram platform.
//
// The check string is the sorted list of "key=value" pairs (hash excluded) joined
// with newlines. The signing key is HMAC-SHA256 of the bot token keyed with the
// constant "WebAppData", and the expected hash is the hex HMAC-SHA256 of the check
// string under that key.
package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const webAppDataKey = "WebAppData"

var (
	ErrMissingBotToken = errors.New("bot token is not configured")
	ErrMissingInitData = errors.New("init data missing")
	ErrMissingHash     = errors.New("init data hash missing")
	ErrHashMismatch    = errors.New("init data hash invalid")
	ErrMalformed       = errors.New("init data malformed")
	ErrExpired         = errors.New("init data expired")
)

// WebAppUser is the user object embedded in init data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// Identity returns the stable identifier stored as users.tg_id.
func (u *WebAppUser) Identity() string {
	return strconv.FormatInt(u.ID, 10)
}

// InitData is a verified init data payload.
type InitData struct {
	User       *WebAppUser
	AuthDate   time.Time
	QueryID    string
	StartParam string
	Hash       string
	Raw        url.Values
}

// Verify checks the payload signature against botToken.
func Verify(initData, botToken string) (*InitData, error) {
	return VerifyWithAge(initData, botToken, 0, time.Now())
}

// VerifyWithAge is Verify plus an auth_date freshness check. A zero maxAge
// disables the freshness check.
func VerifyWithAge(initData, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	if botToken == "" {
		return nil, ErrMissingBotToken
	}
	if initData == "" {
		return nil, ErrMissingInitData
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	hash := values.Get("hash")
	if hash == "" {
		return nil, ErrMissingHash
	}
	values.Del("hash")

	expected := computeHash(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return nil, ErrHashMismatch
	}

	data, err := parse(values)
	if err != nil {
		return nil, err
	}
	data.Hash = hash

	if maxAge > 0 {
		if data.AuthDate.IsZero() || now.Sub(data.AuthDate) > maxAge {
			return nil, ErrExpired
		}
	}

	return data, nil
}

// Sign returns values encoded as init data with a valid hash for botToken.
// Any existing hash entry is replaced.
func Sign(values url.Values, botToken string) string {
	signed := url.Values{}
	for key, vs := range values {
		if key == "hash" {
			continue
		}
		signed[key] = append([]string(nil), vs...)
	}
	signed.Set("hash", computeHash(signed, botToken))
	return signed.Encode()
}

// DataCheckString builds the canonical string covered by the signature.
func DataCheckString(values url.Values) string {
	pairs := make([]string, 0, len(values))
	for key, vs := range values {
		if key == "hash" {
			continue
		}
		for _, v := range vs {
			pairs = append(pairs, key+"="+v)
		}
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\n")
}

func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(webAppDataKey))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func computeHash(values url.Values, botToken string) string {
	mac := hmac.New(sha256.New, secretKey(botToken))
	mac.Write([]byte(DataCheckString(values)))
	return hex.EncodeToString(mac.Sum(nil))
}

func parse(values url.Values) (*InitData, error) {
	data := &InitData{
		QueryID:    values.Get("query_id"),
		StartParam: values.Get("start_param"),
		Raw:        values,
	}

	if raw := values.Get("auth_date"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: auth_date: %v", ErrMalformed, err)
		}
		data.AuthDate = time.Unix(seconds, 0)
	}

	if raw := values.Get("user"); raw != "" {
		var user WebAppUser
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			return nil, fmt.Errorf("%w: user: %v", ErrMalformed, err)
		}
		data.User = &user
	}

	return data, nil
}
