// Command sheet-export prints nametag sheets without running the service.
//
//	sheet-export --in roster.csv --out sheets.pdf
//	sheet-export --event 1700000000000 --selected-only --out sheets.pdf
//	sheet-export events
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load() // Loads .env file if present

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
