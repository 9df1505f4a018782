package auth

// TestChecker accepts a fixed set of tokens, for handler and middleware tests.
type TestChecker struct {
	ValidTokens map[string]bool
}

func NewTestChecker(validTokens ...string) *TestChecker {
	tokens := make(map[string]bool)
	for _, t := range validTokens {
		tokens[t] = true
	}
	return &TestChecker{ValidTokens: tokens}
}

func (c *TestChecker) Validate(token string) error {
	if !c.ValidTokens[token] {
		return ErrUnauthorized
	}
	return nil
}
