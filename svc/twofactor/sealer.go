package twofactor

// SecretSealer protects secrets at rest. *totp.Sealer implements it.
type SecretSealer interface {
	Seal(secret string) (string, error)
	Open(sealed string) (string, error)
}

// PlainSealer stores secrets as-is.
type PlainSealer struct{}

func (PlainSealer) Seal(secret string) (string, error) { return secret, nil }
func (PlainSealer) Open(sealed string) (string, error) { return sealed, nil }
