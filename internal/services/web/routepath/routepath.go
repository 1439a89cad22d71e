// Package routepath stores canonical HTTP paths for web modules.
package routepath

const (
	Root   = "/"
	Login  = "/login"
	Health = "/up"

	AuthAPIPrefix       = "/api/auth/"
	AuthProviders       = "/api/auth/providers"
	AuthSignIn          = "/api/auth/signin"
	AuthCallbackPrefix  = "/api/auth/callback/"
	AuthCallbackPattern = AuthCallbackPrefix + "{provider}"
	AuthSession         = "/api/auth/session"
	AuthSignOut         = "/api/auth/signout"
)

// AuthCallback returns the sign-in callback path for provider.
func AuthCallback(provider string) string {
	return AuthCallbackPrefix + provider
}
