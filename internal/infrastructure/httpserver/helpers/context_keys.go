package helpers

import (
	"github.com/labstack/echo/v4"
)

type ctxKey string

const (
	keyMemberID    ctxKey = "member_id"
	keyMemberEmail ctxKey = "member_email"
)

func SetMemberID(c echo.Context, id string) { c.Set(string(keyMemberID), id) }
func GetMemberIDRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyMemberID))
	id, ok := v.(string)
	return id, ok
}

func SetMemberEmail(c echo.Context, email string) { c.Set(string(keyMemberEmail), email) }
func GetMemberEmailRaw(c echo.Context) (string, bool) {
	v := c.Get(string(keyMemberEmail))
	s, ok := v.(string)
	return s, ok
}
