package provider

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"authgate/internal/auth/device"
	"authgate/internal/auth/models"
	"authgate/internal/auth/password"
	"authgate/internal/auth/store"
	dErrors "authgate/pkg/domain-errors"
	"authgate/pkg/platform/audit"
	"authgate/pkg/platform/sentinel"
	"authgate/pkg/requestcontext"
)

// AuditPublisher receives audit events from the bridge.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event)
}

// Bridge runs the authorization-code flow against a registry of providers
// and maps the resulting upstream profile onto a local user record.
type Bridge struct {
	registry *Registry
	users    store.UserStore
	logger   *slog.Logger
	audit    AuditPublisher
	client   *http.Client
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithAuditPublisher attaches an audit event publisher.
func WithAuditPublisher(p AuditPublisher) BridgeOption {
	return func(b *Bridge) {
		b.audit = p
	}
}

// WithHTTPClient overrides the client used for upstream calls, including
// the token exchange.
func WithHTTPClient(client *http.Client) BridgeOption {
	return func(b *Bridge) {
		b.client = client
	}
}

// NewBridge constructs an identity bridge over the given registry.
func NewBridge(registry *Registry, users store.UserStore, logger *slog.Logger, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		registry: registry,
		users:    users,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// BeginAuthorization returns the upstream authorization URL to redirect
// the user to. State is generated fresh per request; the service keeps no
// per-flow session, so the callback does not verify it.
func (b *Bridge) BeginAuthorization(name string) (string, error) {
	p, err := b.registry.Lookup(name)
	if err != nil {
		return "", err
	}
	state, err := randomState()
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate state")
	}
	return p.OAuth.AuthCodeURL(state), nil
}

// CompleteAuthorization exchanges the callback code, resolves the upstream
// profile to an email, and finds or creates the matching local user.
func (b *Bridge) CompleteAuthorization(ctx context.Context, name, code string) (models.Identity, error) {
	p, err := b.registry.Lookup(name)
	if err != nil {
		return models.Identity{}, err
	}

	ctx = b.upstreamContext(ctx)
	tok, err := p.OAuth.Exchange(ctx, code)
	if err != nil {
		b.logger.Warn("provider code exchange failed", "provider", p.Name, "error", err)
		return models.Identity{}, dErrors.Wrap(err, dErrors.CodeProviderError, "code exchange failed")
	}

	email, err := b.resolveEmail(ctx, p, tok)
	if err != nil {
		return models.Identity{}, err
	}

	user, err := b.findOrCreate(ctx, p, email)
	if err != nil {
		return models.Identity{}, err
	}
	if !user.Active {
		return models.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "could not validate credentials")
	}

	b.emitAudit(ctx, audit.ActionProviderLogin, user.Email, p.Name)
	return models.Identity{Subject: user.Email, Role: user.Role}, nil
}

// resolveEmail walks the provider's address sources in order: the profile
// email, the primary address from the emails endpoint, then the noreply
// stand-in built from the login name.
func (b *Bridge) resolveEmail(ctx context.Context, p *Provider, tok *oauth2.Token) (string, error) {
	client := p.OAuth.Client(ctx, tok)

	var profile struct {
		Email string `json:"email"`
		Login string `json:"login"`
	}
	if err := getJSON(ctx, client, p.UserInfoURL, &profile); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeProviderError, "failed to fetch user profile")
	}
	if profile.Email != "" {
		return strings.ToLower(profile.Email), nil
	}

	if p.EmailsURL != "" {
		var addresses []struct {
			Email   string `json:"email"`
			Primary bool   `json:"primary"`
		}
		if err := getJSON(ctx, client, p.EmailsURL, &addresses); err != nil {
			b.logger.Debug("provider emails lookup failed", "provider", p.Name, "error", err)
		} else {
			for _, a := range addresses {
				if a.Primary && a.Email != "" {
					return strings.ToLower(a.Email), nil
				}
			}
		}
	}

	if p.NoReplyDomain != "" && profile.Login != "" {
		return strings.ToLower(profile.Login) + "@" + p.NoReplyDomain, nil
	}
	return "", dErrors.New(dErrors.CodeProviderError, "provider returned no usable email")
}

func (b *Bridge) findOrCreate(ctx context.Context, p *Provider, email string) (*models.User, error) {
	user, err := b.users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}

	// Provider-created accounts get an unguessable password hash so the
	// password login path can never match them.
	hash, err := password.HashRandom()
	if err != nil {
		return nil, err
	}
	user = &models.User{
		ID:           uuid.New(),
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := b.users.Save(ctx, user); err != nil {
		// Lost a race with a concurrent first login for the same account.
		if errors.Is(err, sentinel.ErrConflict) {
			return b.users.FindByEmail(ctx, email)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}

	b.emitAudit(ctx, audit.ActionUserCreated, user.Email, p.Name)
	return user, nil
}

func (b *Bridge) emitAudit(ctx context.Context, action audit.Action, subject, providerName string) {
	if b.audit == nil {
		return
	}
	b.audit.Emit(ctx, audit.Event{
		Action:   action,
		Subject:  subject,
		Provider: providerName,
		Device:   device.ParseUserAgent(requestcontext.UserAgent(ctx)),
		IP:       requestcontext.ClientIP(ctx),
	})
}

// upstreamContext routes oauth2's internal HTTP calls through the
// configured client.
func (b *Bridge) upstreamContext(ctx context.Context) context.Context {
	if b.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, b.client)
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
