package main

import (
	"log"
	"os"

	"github.com/jaramgle/storyclient/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
