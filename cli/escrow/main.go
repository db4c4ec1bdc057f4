package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alphabill-org/alphabill-escrow/cli/escrow/cmd"
)

func main() {
	if err := cmd.New().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "escrow: %v\n", err)
		os.Exit(1)
	}
}
