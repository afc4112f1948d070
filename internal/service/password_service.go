package service

type PasswordService interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}
