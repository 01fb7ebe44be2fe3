// Command armgen-inspect runs a declarative build (the same BuildRequest
// JSON shape package buildsvc's HTTP endpoint accepts) and opens the
// terminal inspector over its result. armgen has no text-assembly parser
// of its own (builds are constructed programmatically or, here, from a
// small JSON instruction list), so a build file is this command's input
// rather than an assembly source file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/nervapy-go/armgen/buildsvc"
	"github.com/nervapy-go/armgen/inspect"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "show version information")
		buildFile   = flag.String("build", "", "path to a build-request JSON file")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("armgen-inspect %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
		return
	}

	if *buildFile == "" {
		fmt.Fprintln(os.Stderr, "armgen-inspect: -build <request.json> is required")
		flag.Usage()
		os.Exit(2)
	}

	req, err := loadRequest(*buildFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "armgen-inspect: %v\n", err)
		os.Exit(1)
	}

	result, err := buildsvc.Run(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "armgen-inspect: build failed: %v\n", err)
		os.Exit(1)
	}

	tui := inspect.NewTUI(result)
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "armgen-inspect: %v\n", err)
		os.Exit(1)
	}
}

func loadRequest(path string) (buildsvc.BuildRequest, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied build file path
	if err != nil {
		return buildsvc.BuildRequest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var req buildsvc.BuildRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return buildsvc.BuildRequest{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return req, nil
}
