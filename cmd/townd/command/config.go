package command

import (
	"github.com/pixil98/go-errors"
)

type Config struct {
	Api    ApiConfig    `json:"api"`
	Broker BrokerConfig `json:"broker"`
	Nats   NatsConfig   `json:"nats"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Api.validate())
	el.Add(c.Broker.validate())
	el.Add(c.Nats.validate())

	return el.Err()
}
