package main

import (
	"fmt"
	"os"

	"github.com/AnyUserName/gbcam/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gbcam:", err)
		os.Exit(1)
	}
}
