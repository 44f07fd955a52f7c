package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/geauxvirtual/hapi/internal/hapictl"
)

func main() {

	serverURL := flag.String("s", "http://127.0.0.1:8000", "hapi server URL")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: hapictl [-s server] <register|login|deactivate>")
		os.Exit(2)
	}

	app := hapictl.NewApp(hapictl.NewClient(*serverURL), os.Stdin, os.Stdout)

	if err := app.Run(context.Background(), flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
