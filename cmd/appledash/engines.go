package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/appledash/internal/registry"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List physics engines",
	Long:  `Shows the physics backends a session can run on.`,
	Run:   runEngines,
}

func runEngines(cmd *cobra.Command, args []string) {
	engines := registry.List()

	if len(engines) == 0 {
		fmt.Println("No engines available.")
		return
	}

	fmt.Println("Available engines:")
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, e := range engines {
		if len(e.Name) > maxNameLen {
			maxNameLen = len(e.Name)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")

	for _, e := range engines {
		fmt.Printf("  %-*s  %s\n", maxNameLen, e.Name, e.Title)
	}

	fmt.Println()
	fmt.Println("Run 'appledash play --engine <name>' to pick one.")
}
