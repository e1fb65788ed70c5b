package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxOwner extracts the account id injected by the Auth middleware. A
// missing id means the middleware did not run (or the token carried no
// identity); reject before any service call.
func ctxOwner(c echo.Context) (string, error) {
	ownerID, _ := c.Get("user_id").(string)
	if ownerID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ownerID, nil
}
