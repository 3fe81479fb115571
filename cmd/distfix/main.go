package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := Execute(context.Background()); err != nil {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
