// Package totp implements RFC 6238 time-based one-time passwords for the
// two-factor flow: secret generation, provisioning URIs, code generation and
// verification, and AES-256-GCM sealing of secrets at rest.
//
// The algorithm is built from small pure functions that mirror the RFCs:
//
//	key, _ := totp.Base32Decode(secret)       // RFC 4648, case-insensitive
//	msg := totp.CounterBytes(totp.Counter(t))  // floor(unix/30), big-endian
//	code := totp.Truncate(totp.HMACSHA1(key, msg[:])) % 1_000_000
//
// Verify and GenerateCode wrap these steps. Verification accepts the codes of
// window steps on either side of the current step to absorb clock drift; the
// default window of 1 gives a 90 second acceptance span. Malformed input is
// rejected with ErrInvalidOTP before any HMAC is computed.
//
// Time is never read implicitly by the package-level functions. Engine binds a
// clock, a window and an HMAC primitive for callers that want the wall clock:
//
//	engine := totp.NewEngine(totp.WithWindow(1))
//	ok, err := engine.Verify(secret, "287082")
//
// Enrollment starts with GenerateSecretKey and GetTOTPURI:
//
//	secret, _ := totp.GenerateSecretKey()
//	uri, _ := totp.GetTOTPURI(totp.TOTPParams{
//	    Secret:      secret,
//	    AccountName: "alice@example.com",
//	    Issuer:      "RentDesk",
//	})
//
// Secrets may be sealed before they are persisted:
//
//	sealer, _ := totp.NewSealerFromConfig(cfg)
//	stored, _ := sealer.Seal(secret)
//
// Configuration is read from TOTP_ENCRYPTION_KEY, TOTP_ISSUER and TOTP_WINDOW.
// Errors are package sentinels, joined with their causes via errors.Join.
//
// See RFC 4226 (HOTP) and RFC 6238 (TOTP).
package totp
