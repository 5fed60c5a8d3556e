package common

const (
	// AuthorizationHeaderName carries the bearer token on guarded requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)
