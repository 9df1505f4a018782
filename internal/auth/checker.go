package auth

var _ Checker = (*TokenService)(nil)
var _ Checker = (*TestChecker)(nil)

type Checker interface {
	Validate(token string) error
}
