package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jgivc/filecatalog/internal/app"
)

func main() {
	cfgFileName := flag.String("c", "config.yml", "Path to config file")
	flag.Parse()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(c)

	// Signals received while wiring wait in c until Start returns.
	app := app.New(*cfgFileName)
	app.Start()

	for sig := range c {
		switch sig {
		case syscall.SIGUSR1:
			go app.Reload()
		case syscall.SIGUSR2:
			go app.Dump()
		case os.Interrupt, syscall.SIGTERM:
			fmt.Println("Received termination signal. Shutting down...")
			app.Stop()
			fmt.Println("done")

			return
		}
	}
}
