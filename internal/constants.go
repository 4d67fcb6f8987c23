package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "homebid_access_token"
	COOKIE_REDIRECT_NAME     = "homebid_redirect"
)
