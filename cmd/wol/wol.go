package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/wol/internal/runner"
)

func main() {
	options := runner.ParseOptions()
	wolRunner, err := runner.NewRunner(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s\n", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup close handler
	go func() {
		<-c
		fmt.Println("\r- Interrupted, abandoning pending wakes")
		wolRunner.Close()
		cancel()
	}()

	err = wolRunner.Run(ctx)
	if err != nil {
		gologger.Fatal().Msgf("Could not wake: %s\n", err)
	}
}
