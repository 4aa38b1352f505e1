// townctl is a small operator CLI for inspecting a running townd.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const nameColumnWidth = 40

type listEnvelope struct {
	IsOK     bool   `json:"isOK"`
	Message  string `json:"message"`
	Response struct {
		Towns []struct {
			CoveyTownID      string `json:"coveyTownID"`
			FriendlyName     string `json:"friendlyName"`
			CurrentOccupancy int    `json:"currentOccupancy"`
			MaximumOccupancy int    `json:"maximumOccupancy"`
		} `json:"towns"`
	} `json:"response"`
}

func main() {
	addr := flag.String("addr", "http://127.0.0.1:8081", "base URL of the townd REST API")
	flag.Parse()

	if err := listTowns(*addr); err != nil {
		fmt.Fprintf(os.Stderr, "townctl: %v\n", err)
		os.Exit(1)
	}
}

func listTowns(addr string) error {
	resp, err := http.Get(strings.TrimRight(addr, "/") + "/towns")
	if err != nil {
		return fmt.Errorf("fetching town list: %w", err)
	}
	defer resp.Body.Close()

	var env listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding town list: %w", err)
	}
	if !env.IsOK {
		return fmt.Errorf("listing towns: %s", env.Message)
	}

	if len(env.Response.Towns) == 0 {
		fmt.Println("no public towns")
		return nil
	}

	for _, t := range env.Response.Towns {
		name := wordwrap.String(t.FriendlyName, nameColumnWidth)
		lines := strings.Split(name, "\n")
		fmt.Printf("%-*s  %s  %d/%d\n", nameColumnWidth, lines[0], t.CoveyTownID, t.CurrentOccupancy, t.MaximumOccupancy)
		for _, l := range lines[1:] {
			fmt.Printf("%-*s\n", nameColumnWidth, l)
		}
	}
	return nil
}
