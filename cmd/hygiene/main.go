// Command hygiene runs CRM data hygiene checks from the command line or as a
// scheduled REST service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := NewApp(os.Stdout)
	if err := app.Execute(ctx, os.Args[1:]); err != nil {
		_, _ = os.Stderr.WriteString("❌ " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
