// Package initdata validates Telegram Mini App init data.
package initdata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"miniapp-shop/internal/domain"
)

const secretLabel = "WebAppData"

// Validator checks init data against the bot token it was signed for.
type Validator struct {
	secret []byte
}

func NewValidator(botToken string) *Validator {
	return &Validator{secret: secretKey(botToken)}
}

// Validate returns domain.ErrUnauthorized when raw is empty, malformed or
// carries a hash that does not match the bot token.
func (v *Validator) Validate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: init data missing", domain.ErrUnauthorized)
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return fmt.Errorf("%w: parse init data: %v", domain.ErrUnauthorized, err)
	}
	got := values.Get("hash")
	if got == "" {
		return fmt.Errorf("%w: hash missing", domain.ErrUnauthorized)
	}
	gotBytes, err := hex.DecodeString(got)
	if err != nil {
		return fmt.Errorf("%w: hash is not hex", domain.ErrUnauthorized)
	}
	want := sign(v.secret, dataCheckString(values))
	if !hmac.Equal(gotBytes, want) {
		return fmt.Errorf("%w: hash mismatch", domain.ErrUnauthorized)
	}
	return nil
}

// Sign returns values encoded as init data with a valid hash for botToken.
func Sign(values url.Values, botToken string) string {
	out := url.Values{}
	for k, vs := range values {
		if k == "hash" {
			continue
		}
		out[k] = vs
	}
	out.Set("hash", hex.EncodeToString(sign(secretKey(botToken), dataCheckString(out))))
	return out.Encode()
}

func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(secretLabel))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func sign(secret []byte, data string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}

// dataCheckString joins every pair except hash as key=value, sorted by key.
func dataCheckString(values url.Values) string {
	pairs := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		pairs = append(pairs, k+"="+values.Get(k))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, "\n")
}
