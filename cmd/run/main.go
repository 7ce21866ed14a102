package main

import (
	"log"

	"github.com/zintix-labs/multinom/sdk/perf"
)

// makefile runner
func main() {
	bindVar()
	if err := perf.RunPProf(executeEvaluation, cfg.pprofmode, perf.DefaultDir); err != nil {
		log.Fatal(err)
	}
}
