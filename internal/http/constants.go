package httpx

// Cookie names shared by the auth handlers and middleware.
const (
	sessionCookieName = "session_id"
	stateCookieName   = "oauth_state"
	nonceCookieName   = "oauth_nonce"

	// postLoginRedirectCookie carries the path the viewer asked for before
	// being sent to the identity provider.
	postLoginRedirectCookie = "post_login_redirect"
)

// oauthCookieMaxAge bounds how long the state/nonce cookies live. The login
// round-trip to the IdP is expected to finish well inside this window.
const oauthCookieMaxAge = 600
