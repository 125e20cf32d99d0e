// ABOUTME: Entry point for prodctl
// ABOUTME: Command-line client and terminal UI for the Product Management System

package main

import (
	"fmt"
	"os"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
