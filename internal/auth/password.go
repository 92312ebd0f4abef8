package auth

import "golang.org/x/crypto/bcrypt"

// hashPassword はパスワードをbcryptでハッシュ化する。
// 平文パスワードをそのまま保存することはない。
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword は平文パスワードがハッシュと一致するかを検証する。
// bcryptの比較は一定時間で行われる。
func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
