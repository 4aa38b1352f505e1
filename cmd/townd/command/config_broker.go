package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-town/internal/broker"
	"github.com/pixil98/go-town/internal/town"
)

type BrokerKind int

const (
	BrokerKindInsecure BrokerKind = iota
	BrokerKindTwilio
)

func (k *BrokerKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "insecure", "":
		*k = BrokerKindInsecure
	case "twilio":
		*k = BrokerKindTwilio
	default:
		return fmt.Errorf("unknown broker kind: %s", text)
	}
	return nil
}

type BrokerConfig struct {
	Kind         BrokerKind `json:"kind"`
	AccountSid   string     `json:"account_sid,omitempty"`
	ApiKeySid    string     `json:"api_key_sid,omitempty"`
	ApiKeySecret string     `json:"api_key_secret,omitempty"`
	TokenTTL     string     `json:"token_ttl,omitempty"`
}

func (c *BrokerConfig) validate() error {
	el := errors.NewErrorList()

	if c.Kind == BrokerKindTwilio {
		if c.AccountSid == "" {
			el.Add(fmt.Errorf("account_sid is required for the twilio broker"))
		}
		if c.ApiKeySid == "" {
			el.Add(fmt.Errorf("api_key_sid is required for the twilio broker"))
		}
		if c.ApiKeySecret == "" {
			el.Add(fmt.Errorf("api_key_secret is required for the twilio broker"))
		}
	}

	if c.TokenTTL != "" {
		d, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			el.Add(fmt.Errorf("parsing token_ttl: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("token_ttl must be positive"))
		}
	}

	return el.Err()
}

func (c *BrokerConfig) buildBroker() (town.TokenBroker, error) {
	switch c.Kind {
	case BrokerKindTwilio:
		var opts []broker.TwilioOpt
		if c.TokenTTL != "" {
			d, err := time.ParseDuration(c.TokenTTL)
			if err != nil {
				return nil, fmt.Errorf("parsing token_ttl: %w", err)
			}
			opts = append(opts, broker.WithTokenTTL(d))
		}
		return broker.NewTwilio(c.AccountSid, c.ApiKeySid, c.ApiKeySecret, opts...)
	case BrokerKindInsecure:
		return broker.Insecure{}, nil
	default:
		return nil, fmt.Errorf("unknown broker kind: %v", c.Kind)
	}
}
