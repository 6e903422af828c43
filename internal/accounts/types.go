package accounts

// User is one configured account: a username and the bcrypt hash of its password.
type User struct {
	Username     string
	PasswordHash string
}
