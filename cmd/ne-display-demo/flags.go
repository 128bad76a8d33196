// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --term, --ansi, --utf8 for the display demo

package main

import "flag"

type cliArgs struct {
	configPath string
	termOver   string
	forceANSI  bool
	utf8       bool
	fileName   string
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.configPath, "config", "", "path to a YAML settings file")
	flag.StringVar(&args.termOver, "term", "", "override $TERM for capability resolution")
	flag.BoolVar(&args.forceANSI, "ansi", false, "skip terminfo lookup and use the hardwired ANSI profile")
	flag.BoolVar(&args.utf8, "utf8", true, "use the UTF-8 output encoding")
	flag.StringVar(&args.fileName, "name", "", "buffer name shown on the status line")

	flag.Parse()
	return args
}
