package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-town/internal/api"
	"github.com/pixil98/go-town/internal/town"
	"github.com/pixil98/go-town/internal/transport"
)

type ApiConfig struct {
	ListenAddr string `json:"listen_addr"`
}

func (c *ApiConfig) validate() error {
	el := errors.NewErrorList()

	if c.ListenAddr == "" {
		el.Add(fmt.Errorf("listen_addr is required"))
	}

	return el.Err()
}

func (c *ApiConfig) buildServer(registry *town.TownRegistry) *api.Server {
	return api.NewServer(c.ListenAddr, registry,
		api.WithSocketHandler(transport.NewSocketAdapter(registry)))
}
