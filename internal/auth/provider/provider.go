// Package provider bridges upstream OAuth2 identity providers into local
// identities. Each provider contributes a verified email address; users
// arriving through a provider are created on first login with a random,
// unusable password hash.
package provider

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"authgate/internal/platform/config"
	dErrors "authgate/pkg/domain-errors"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	githubUserInfoURL = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"

	// GitHub hides the account email when the user keeps it off their
	// public profile; the noreply address is the documented stand-in.
	githubNoReplyDomain = "users.noreply.github.com"
)

// Provider is one configured upstream identity provider.
type Provider struct {
	Name        string
	OAuth       *oauth2.Config
	UserInfoURL string
	// EmailsURL, when set, is consulted for the primary address if the
	// profile omits the email; NoReplyDomain is the last resort.
	EmailsURL     string
	NoReplyDomain string
}

// Registry holds the configured providers keyed by their URL path name.
type Registry struct {
	providers map[string]*Provider
}

// NewRegistry builds the provider set from configuration. Providers with
// missing credentials are still registered; a misconfigured flow fails at
// the upstream rather than at lookup.
func NewRegistry(cfg config.Config) *Registry {
	return &Registry{providers: map[string]*Provider{
		"google": {
			Name: "google",
			OAuth: &oauth2.Config{
				ClientID:     cfg.Google.ClientID,
				ClientSecret: cfg.Google.ClientSecret,
				Endpoint:     google.Endpoint,
				RedirectURL:  cfg.AppURL + "/auth/google/callback",
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: googleUserInfoURL,
		},
		"github": {
			Name: "github",
			OAuth: &oauth2.Config{
				ClientID:     cfg.GitHub.ClientID,
				ClientSecret: cfg.GitHub.ClientSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  cfg.AppURL + "/auth/github/callback",
				Scopes:       []string{"user:email"},
			},
			UserInfoURL:   githubUserInfoURL,
			EmailsURL:     githubEmailsURL,
			NoReplyDomain: githubNoReplyDomain,
		},
	}}
}

// Lookup resolves a provider by its path name.
func (r *Registry) Lookup(name string) (*Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "unknown provider")
	}
	return p, nil
}
