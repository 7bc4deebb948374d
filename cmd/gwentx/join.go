package main

import (
	"context"
	"os"
	"os/signal"

	gwentnet "github.com/peterkuimelis/gwentx/internal/net"
)

type JoinCmd struct {
	Deck int    `default:"2" help:"Deck number to use (1-indexed from the host's deck file)"`
	Addr string `default:"localhost:${port}" help:"Server address to connect to"`
}

func (c *JoinCmd) Run(rt *runtime) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rt.diag.Debug("joining", "addr", c.Addr, "deck", c.Deck)
	return gwentnet.Connect(ctx, c.Addr, c.Deck)
}
