package main

import (
	"fmt"
	"log"
	"os"

	"github.com/viant/xproxy"
	"github.com/viant/xproxy/cmd"
)

func main() {
	if err := cmd.RunApp(xproxy.Version, os.Args[1:]); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		log.Fatal(err)
	}
}
