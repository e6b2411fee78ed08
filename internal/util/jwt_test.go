package util

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestJWTRoundTrip(t *testing.T) {
	is := is.New(t)
	secret := "0123456789abcdef0123456789abcdef"

	token, err := GenerateJWT(7, "root", RoleAdmin, secret, time.Hour)
	is.NoErr(err)

	claims, err := ParseJWT(token, secret)
	is.NoErr(err)
	is.Equal(claims.UserID, uint(7))
	is.Equal(claims.Username, "root")
	is.Equal(claims.Role, RoleAdmin)

	_, err = ParseJWT(token, "another secret")
	is.True(err != nil)

	expired, err := GenerateJWT(7, "root", RoleAdmin, secret, -time.Minute)
	is.NoErr(err)
	_, err = ParseJWT(expired, secret)
	is.True(err != nil)
}
