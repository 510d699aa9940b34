package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"strconv"
	"strings"
	"time"
)

var noPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Base32Decode decodes an RFC 4648 secret. Lowercase letters and '=' padding are accepted.
func Base32Decode(secret string) ([]byte, error) {
	s := strings.ToUpper(strings.TrimSpace(secret))
	s = strings.ReplaceAll(s, "=", "")
	if s == "" {
		return nil, errors.Join(ErrDecode, ErrMissingSecret)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '2' || c > '7') {
			return nil, ErrDecode
		}
	}
	key, err := noPadding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return key, nil
}

// HMACSHA1 returns the 20-byte HMAC-SHA1 of message under key.
func HMACSHA1(key, message []byte) []byte {
	mac := hmac.New(sha1.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// CounterBytes encodes a time-step counter as 8 big-endian bytes.
func CounterBytes(counter uint64) [8]byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], counter)
	return b
}

// Counter returns the 30-second time step containing t.
// Instants before the Unix epoch map to step zero.
func Counter(t time.Time) uint64 {
	sec := t.Unix()
	if sec < 0 {
		return 0
	}
	return uint64(sec / DefaultPeriod)
}

// Truncate applies RFC 4226 dynamic truncation to an HMAC-SHA1 digest
// and returns the 31-bit result.
func Truncate(sum []byte) uint32 {
	offset := sum[len(sum)-1] & 0x0f
	return uint32(sum[offset]&0x7f)<<24 |
		uint32(sum[offset+1])<<16 |
		uint32(sum[offset+2])<<8 |
		uint32(sum[offset+3])
}

// GenerateHOTP implements RFC 4226 HMAC-based One-Time Password algorithm
// for an already decoded key.
func GenerateHOTP(key []byte, counter uint64, digits int) int {
	return hotp(HMACSHA1, key, counter, digits)
}

// GenerateCode returns the 6-digit code of secret for the given time-step counter.
func GenerateCode(secret string, counter uint64) (string, error) {
	key, err := Base32Decode(secret)
	if err != nil {
		return "", err
	}
	return formatCode(hotp(HMACSHA1, key, counter, DefaultDigits)), nil
}

// GenerateTOTPWithTime returns the code for the 30-second window containing t.
func GenerateTOTPWithTime(secret string, t time.Time) (string, error) {
	return GenerateCode(secret, Counter(t))
}

// ValidCode reports whether code consists of exactly six ASCII digits.
func ValidCode(code string) bool {
	if len(code) != DefaultDigits {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}

// Verify checks code against secret at instant now, accepting the codes of
// window time steps before and after the current one.
// Malformed codes fail with ErrInvalidOTP before the secret is touched.
func Verify(secret, code string, window int, now time.Time) (bool, error) {
	return verify(HMACSHA1, secret, code, window, now)
}

func verify(sum func(key, message []byte) []byte, secret, code string, window int, now time.Time) (bool, error) {
	if !ValidCode(code) {
		return false, ErrInvalidOTP
	}

	key, err := Base32Decode(secret)
	if err != nil {
		return false, err
	}

	if window < 0 {
		window = 0
	}

	current := int64(Counter(now))
	for i := -int64(window); i <= int64(window); i++ {
		step := current + i
		if step < 0 {
			continue
		}
		candidate := formatCode(hotp(sum, key, uint64(step), DefaultDigits))
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(code)) == 1 {
			return true, nil
		}
	}

	return false, nil
}

func hotp(sum func(key, message []byte) []byte, key []byte, counter uint64, digits int) int {
	msg := CounterBytes(counter)
	code := Truncate(sum(key, msg[:]))

	mod := uint32(1)
	for range digits {
		mod *= 10
	}
	return int(code % mod)
}

func formatCode(code int) string {
	s := strconv.Itoa(code)
	if len(s) >= DefaultDigits {
		return s
	}
	return strings.Repeat("0", DefaultDigits-len(s)) + s
}

// Engine verifies codes against an injected clock, window and HMAC function.
// The zero value is not usable; construct with NewEngine.
type Engine struct {
	window int
	now    func() time.Time
	sum    func(key, message []byte) []byte
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWindow sets the number of accepted adjacent time steps. Negative values are ignored.
func WithWindow(n int) EngineOption {
	return func(e *Engine) {
		if n >= 0 {
			e.window = n
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHMAC replaces the HMAC-SHA1 primitive, mostly for instrumentation in tests.
func WithHMAC(sum func(key, message []byte) []byte) EngineOption {
	return func(e *Engine) {
		if sum != nil {
			e.sum = sum
		}
	}
}

// NewEngine returns an Engine with a ±1 step window and the wall clock.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		window: DefaultWindow,
		now:    time.Now,
		sum:    HMACSHA1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Verify checks code against secret at the engine's current time.
func (e *Engine) Verify(secret, code string) (bool, error) {
	return verify(e.sum, secret, code, e.window, e.now())
}

// Generate returns the code of secret for the engine's current time step.
func (e *Engine) Generate(secret string) (string, error) {
	key, err := Base32Decode(secret)
	if err != nil {
		return "", err
	}
	return formatCode(hotp(e.sum, key, Counter(e.now()), DefaultDigits)), nil
}

// Now returns the engine's current time.
func (e *Engine) Now() time.Time {
	return e.now()
}
