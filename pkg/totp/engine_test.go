package totp_test

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rentdesk/pkg/totp"
)

// ASCII "12345678901234567890", the RFC 4226 / RFC 6238 SHA-1 test key.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestBase32Decode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "uppercase", in: rfcSecret, want: "12345678901234567890"},
		{name: "lowercase", in: "gezdgnbvgy3tqojqgezdgnbvgy3tqojq", want: "12345678901234567890"},
		{name: "padding ignored", in: "GEZDGNBV" + "GE======", want: "12345" + "1"},
		{name: "surrounding whitespace", in: "  " + rfcSecret + "\n", want: "12345678901234567890"},
		{name: "invalid digit", in: "GEZDGNB1", wantErr: true},
		{name: "invalid symbol", in: "GEZD-NBV", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "only padding", in: "====", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.Base32Decode(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, totp.ErrDecode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCounterBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, [8]byte{0, 0, 0, 0, 0, 0, 0, 1}, totp.CounterBytes(1))
	assert.Equal(t, [8]byte{0, 0, 0, 0, 0x02, 0x35, 0x23, 0xed}, totp.CounterBytes(37037037))
	assert.Equal(t, [8]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, totp.CounterBytes(^uint64(0)))
}

func TestCounter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(0), totp.Counter(time.Unix(29, 0)))
	assert.Equal(t, uint64(1), totp.Counter(time.Unix(30, 0)))
	assert.Equal(t, uint64(1), totp.Counter(time.Unix(59, 999)))
	assert.Equal(t, uint64(37037037), totp.Counter(time.Unix(1111111111, 0)))
	assert.Equal(t, uint64(0), totp.Counter(time.Unix(-100, 0)))
}

// RFC 4226 Appendix D.
func TestHMACAndTruncate(t *testing.T) {
	t.Parallel()

	key := []byte("12345678901234567890")
	tests := []struct {
		counter   uint64
		hmac      string
		truncated uint32
		hotp      int
	}{
		{0, "cc93cf18508d94934c64b65d8ba7667fb7cde4b0", 1284755224, 755224},
		{1, "75a48a19d4cbe100644e8ac1397eea747a2d33ab", 1094287082, 287082},
		{2, "0bacb7fa082fef30782211938bc1c5e70416ff44", 137359152, 359152},
		{3, "66c28227d03a2d5529262ff016a1e6ef76557ece", 1726969429, 969429},
		{4, "a904c900a64b35909874b33e61c5938a8e15ed1c", 1640338314, 338314},
		{5, "a37e783d7b7233c083d4f62926c7a25f238d0316", 868254676, 254676},
		{6, "bc9cd28561042c83f219324d3c607256c03272ae", 1918287922, 287922},
		{7, "a4fb960c0bc06e1eabb804e5b397cdc4b45596fa", 82162583, 162583},
		{8, "1b3c89f65e6c9e883012052823443f048b4332db", 673399871, 399871},
		{9, "1637409809a679dc698207310c8c7fc07290d9e5", 645520489, 520489},
	}

	for _, tt := range tests {
		msg := totp.CounterBytes(tt.counter)
		sum := totp.HMACSHA1(key, msg[:])
		require.Len(t, sum, 20)
		assert.Equal(t, tt.hmac, hex.EncodeToString(sum), "counter %d", tt.counter)
		assert.Equal(t, tt.truncated, totp.Truncate(sum), "counter %d", tt.counter)
		assert.Equal(t, tt.hotp, totp.GenerateHOTP(key, tt.counter, 6), "counter %d", tt.counter)
	}
}

func TestTruncateMasksSignBit(t *testing.T) {
	t.Parallel()

	sum := make([]byte, 20)
	sum[0], sum[1], sum[2], sum[3] = 0xff, 0xff, 0xff, 0xff
	assert.Equal(t, uint32(0x7fffffff), totp.Truncate(sum))

	sum[19] = 0x0f // offset 15 reads bytes 15..18
	sum[15], sum[16], sum[17], sum[18] = 0x80, 0x00, 0x00, 0x01
	assert.Equal(t, uint32(1), totp.Truncate(sum))
}

// RFC 6238 Appendix B, SHA-1 column, last six digits.
func TestGenerateCodeRFC6238Vectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		unix int64
		want string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, tt := range tests {
		code, err := totp.GenerateCode(rfcSecret, totp.Counter(time.Unix(tt.unix, 0)))
		require.NoError(t, err)
		assert.Equal(t, tt.want, code, "T=%d", tt.unix)

		code, err = totp.GenerateTOTPWithTime(rfcSecret, time.Unix(tt.unix, 0).UTC())
		require.NoError(t, err)
		assert.Equal(t, tt.want, code, "T=%d", tt.unix)
	}
}

func TestGenerateCodeInvalidSecret(t *testing.T) {
	t.Parallel()

	_, err := totp.GenerateCode("not base32!", 1)
	assert.ErrorIs(t, err, totp.ErrDecode)
}

func TestVerifyWindow(t *testing.T) {
	t.Parallel()

	now := time.Unix(1111111111, 0)
	c := totp.Counter(now)

	codeAt := func(offset int64) string {
		code, err := totp.GenerateCode(rfcSecret, uint64(int64(c)+offset))
		require.NoError(t, err)
		return code
	}

	tests := []struct {
		offset int64
		want   bool
	}{
		{-2, false},
		{-1, true},
		{0, true},
		{1, true},
		{2, false},
	}

	for _, tt := range tests {
		ok, err := totp.Verify(rfcSecret, codeAt(tt.offset), 1, now)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "offset %d", tt.offset)
	}

	t.Run("zero window accepts only the current step", func(t *testing.T) {
		ok, err := totp.Verify(rfcSecret, codeAt(-1), 0, now)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = totp.Verify(rfcSecret, codeAt(0), 0, now)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wider window accepts two steps", func(t *testing.T) {
		ok, err := totp.Verify(rfcSecret, codeAt(2), 2, now)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("window does not underflow at the epoch", func(t *testing.T) {
		ok, err := totp.Verify(rfcSecret, "755224", 1, time.Unix(10, 0))
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestVerifyFormatRejection(t *testing.T) {
	t.Parallel()

	inputs := []string{"12345", "abcdef", "", "1234567", "12 456", " 12345", "12345a", "١٢٣٤٥٦"}

	for _, in := range inputs {
		calls := 0
		engine := totp.NewEngine(
			totp.WithClock(func() time.Time { return time.Unix(1111111111, 0) }),
			totp.WithHMAC(func(key, message []byte) []byte {
				calls++
				return totp.HMACSHA1(key, message)
			}),
		)

		ok, err := engine.Verify(rfcSecret, in)
		assert.ErrorIs(t, err, totp.ErrInvalidOTP, "input %q", in)
		assert.False(t, ok)
		assert.Zero(t, calls, "input %q must not reach HMAC", in)

		ok, err = totp.Verify(rfcSecret, in, 1, time.Unix(1111111111, 0))
		assert.ErrorIs(t, err, totp.ErrInvalidOTP)
		assert.False(t, ok)
	}
}

func TestVerifyBadSecret(t *testing.T) {
	t.Parallel()

	ok, err := totp.Verify("%%%", "123456", 1, time.Now())
	assert.ErrorIs(t, err, totp.ErrDecode)
	assert.False(t, ok)
}

func TestEngine(t *testing.T) {
	t.Parallel()

	now := time.Unix(1111111111, 0)
	calls := 0
	engine := totp.NewEngine(
		totp.WithClock(func() time.Time { return now }),
		totp.WithHMAC(func(key, message []byte) []byte {
			calls++
			return totp.HMACSHA1(key, message)
		}),
	)

	assert.Equal(t, now, engine.Now())

	code, err := engine.Generate(rfcSecret)
	require.NoError(t, err)
	assert.Equal(t, "050471", code)

	calls = 0
	ok, err := engine.Verify(rfcSecret, "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, calls, "window 1 computes at most three HMACs")

	calls = 0
	ok, err = engine.Verify(rfcSecret, "081804")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, calls, "previous step matches first")

	wide := totp.NewEngine(
		totp.WithClock(func() time.Time { return now }),
		totp.WithWindow(2),
	)
	ok, err = wide.Verify(rfcSecret, "731029")
	require.NoError(t, err)
	assert.True(t, ok)

	ignored := totp.NewEngine(totp.WithWindow(-5), totp.WithClock(func() time.Time { return now }))
	ok, err = ignored.Verify(rfcSecret, "266759")
	require.NoError(t, err)
	assert.True(t, ok, "negative window option keeps the default")
}
