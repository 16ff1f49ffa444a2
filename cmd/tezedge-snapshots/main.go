package main

import (
	"context"
	"os"

	"github.com/tezedge/tezedge-snapshots/cmd/tezedge-snapshots/commands"
)

func main() {
	ctx := context.Background()
	if err := commands.Main(ctx); err != nil {
		os.Exit(-1)
	}
}
