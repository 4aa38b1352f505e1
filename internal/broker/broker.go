// Package broker provides media-token brokers for town sessions. The core
// only sees the town.TokenBroker interface; everything here is adapter.
package broker

import (
	"context"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/twilio/twilio-go/client/jwt"
)

const defaultTokenTTL = 4 * time.Hour

// Twilio issues Twilio Video access tokens scoped to a single town's room.
// Token creation is local signing; no network round trip is involved.
type Twilio struct {
	accountSid   string
	apiKeySid    string
	apiKeySecret string
	ttl          time.Duration
}

// TwilioOpt configures a Twilio broker.
type TwilioOpt func(*Twilio)

// WithTokenTTL sets how long issued video tokens remain valid.
func WithTokenTTL(d time.Duration) TwilioOpt {
	return func(t *Twilio) {
		t.ttl = d
	}
}

// NewTwilio creates a broker signing tokens with the given API key.
func NewTwilio(accountSid, apiKeySid, apiKeySecret string, opts ...TwilioOpt) (*Twilio, error) {
	if accountSid == "" || apiKeySid == "" || apiKeySecret == "" {
		return nil, fmt.Errorf("twilio account sid, api key sid, and api key secret are all required")
	}

	t := &Twilio{
		accountSid:   accountSid,
		apiKeySid:    apiKeySid,
		apiKeySecret: apiKeySecret,
		ttl:          defaultTokenTTL,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Twilio) GetTokenForTown(ctx context.Context, coveyTownID, playerID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := jwt.CreateAccessToken(jwt.AccessTokenParams{
		AccountSid:    t.accountSid,
		SigningKeySid: t.apiKeySid,
		Secret:        t.apiKeySecret,
		Identity:      playerID,
		Ttl:           t.ttl.Seconds(),
	})
	token.AddGrant(&jwt.VideoGrant{Room: coveyTownID})

	signed, err := token.ToJwt()
	if err != nil {
		return "", fmt.Errorf("signing video token: %w", err)
	}
	return signed, nil
}

// Insecure issues random tokens with no media backing. For development and
// tests only.
type Insecure struct{}

func (Insecure) GetTokenForTown(_ context.Context, _, _ string) (string, error) {
	token, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return token, nil
}
