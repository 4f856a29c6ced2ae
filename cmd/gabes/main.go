//
// main.go
//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Command gabes runs one side of a two-party garbled-circuit
// evaluation: -g to garble and serve, -e to connect and evaluate.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"

	"github.com/nachonavarro/gabes/circuit"
	"github.com/nachonavarro/gabes/gabeserr"
	"github.com/nachonavarro/gabes/internal/rngseed"
	"github.com/nachonavarro/gabes/internal/timing"
	"github.com/nachonavarro/gabes/netio"
	"github.com/nachonavarro/gabes/protocol"
)

func main() {
	garbler := flag.Bool("g", false, "run as the garbler")
	evaluator := flag.Bool("e", false, "run as the evaluator")
	bits := flag.String("b", "", "input bitstring ('0'/'1' per owned identifier, in -i order)")
	ids := flag.String("i", "", "comma-separated identifiers of the wires this party owns")
	circFile := flag.String("c", "", "circuit file (garbler only)")
	addr := flag.String("a", "", "peer address, host:port")
	cl := flag.Bool("cl", false, "classical garbling")
	pp := flag.Bool("pp", false, "point-and-permute garbling")
	grr3 := flag.Bool("grr3", false, "GRR3 garbling")
	free := flag.Bool("free", false, "Free-XOR garbling")
	fle := flag.Bool("fle", false, "FleXOR garbling")
	half := flag.Bool("half", false, "Half-Gates garbling")
	verbose := flag.Bool("v", false, "print a phase-timing report after the run")
	render := flag.Bool("r", false, "print a tree drawing of -c FILE and exit, without garbling or connecting")
	flag.Parse()

	err := run(*garbler, *evaluator, *render, *bits, *ids, *circFile, *addr, *cl, *pp, *grr3, *free, *fle, *half, *verbose)
	if err != nil {
		log.Print(err)
	}
	os.Exit(gabeserr.ExitCode(err))
}

func run(garbler, evaluator, render bool, bits, ids, circFile, addr string, cl, pp, grr3, free, fle, half, verbose bool) error {
	if render {
		if circFile == "" {
			return gabeserr.NewUsageError("-c FILE is required with -r")
		}
		circ, err := loadCircuit(circFile)
		if err != nil {
			return err
		}
		return circ.Render(os.Stdout)
	}
	if garbler == evaluator {
		return gabeserr.NewUsageError("exactly one of -g or -e is required")
	}
	if addr == "" {
		return gabeserr.NewUsageError("-a HOST:PORT is required")
	}
	if garbler && circFile == "" {
		return gabeserr.NewUsageError("-c FILE is required for the garbler")
	}

	schemeName, err := pickScheme(cl, pp, grr3, free, fle, half)
	if err != nil {
		return err
	}

	owned, err := parseOwnedInputs(ids, bits)
	if err != nil {
		return err
	}

	rnd := rngseed.Reader()

	if garbler {
		circ, err := loadCircuit(circFile)
		if err != nil {
			return err
		}
		return runGarbler(addr, schemeName, circ, owned, rnd, verbose)
	}
	return runEvaluator(addr, schemeName, owned, rnd, verbose)
}

func pickScheme(cl, pp, grr3, free, fle, half bool) (string, error) {
	chosen := ""
	count := 0
	for name, set := range map[string]bool{"cl": cl, "pp": pp, "grr3": grr3, "free": free, "fle": fle, "half": half} {
		if set {
			chosen = name
			count++
		}
	}
	if count > 1 {
		return "", gabeserr.NewUsageError("at most one scheme flag may be given")
	}
	if count == 0 {
		return "cl", nil
	}
	return chosen, nil
}

func parseOwnedInputs(ids, bits string) (protocol.Inputs, error) {
	if ids == "" {
		return protocol.Inputs{}, nil
	}
	idList := strings.Split(ids, ",")
	if len(idList) != len(bits) {
		return nil, gabeserr.NewUsageError("-b has %d digits but -i names %d identifiers", len(bits), len(idList))
	}
	owned := make(protocol.Inputs, len(idList))
	for i, id := range idList {
		switch bits[i] {
		case '0':
			owned[id] = false
		case '1':
			owned[id] = true
		default:
			return nil, gabeserr.NewUsageError("-b must contain only '0'/'1', got %q", bits)
		}
	}
	return owned, nil
}

func loadCircuit(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gabeserr.NewParseError("reading circuit file: %v", err)
	}
	return circuit.Parse(string(data))
}

func runGarbler(addr, schemeName string, circ *circuit.Circuit, owned protocol.Inputs, rnd io.Reader, verbose bool) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return gabeserr.NewNetworkError(err)
	}
	defer ln.Close()
	fmt.Fprintf(os.Stderr, "gabes: listening on %s\n", addr)

	c, err := ln.Accept()
	if err != nil {
		return gabeserr.NewNetworkError(err)
	}
	defer c.Close()

	conn := netio.New(c)
	defer conn.Close()

	var tm *timing.Timing
	if verbose {
		tm = timing.NewTiming()
	}

	result, err := protocol.RunGarbler(conn, rnd, schemeName, circ, owned, tm)
	if err != nil {
		return err
	}
	fmt.Printf("result: %v\n", result)
	if tm != nil {
		tm.Print(conn.Stats)
	}
	return nil
}

func runEvaluator(addr, schemeName string, owned protocol.Inputs, rnd io.Reader, verbose bool) error {
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return gabeserr.NewNetworkError(err)
	}
	defer c.Close()

	conn := netio.New(c)
	defer conn.Close()

	var tm *timing.Timing
	if verbose {
		tm = timing.NewTiming()
	}

	result, err := protocol.RunEvaluator(conn, rnd, schemeName, owned, tm)
	if err != nil {
		return err
	}
	fmt.Printf("result: %v\n", result)
	if tm != nil {
		tm.Print(conn.Stats)
	}
	return nil
}
