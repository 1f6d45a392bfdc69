package auth

import "golang.org/x/crypto/bcrypt"

// Hashowanie jest wywoływane jawnie przy rejestracji i zmianie hasła,
// nigdy w generycznej ścieżce zapisu użytkownika.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
