package common

// Cookie names under which the token pair travels when the client opts for
// cookie transport. Both are set HttpOnly+Secure by the HTTP layer.
const (
	AccessTokenCookieName  = "accessToken"
	RefreshTokenCookieName = "refreshToken"
)
