// Command bindtrace reads bind trace scripts and prints the result of each line.
//
// Each line names a builtin function, its bound arguments, and optionally call-site arguments
// after a colon:
//
//	sub 10 _1 : 3       # => [7]
//	concat _2 _1 : a b  # => [ba]
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"go.spiff.io/bind/lexer"
	"go.spiff.io/bind/script"
)

func main() {
	log.SetPrefix("# ")
	log.SetFlags(0)

	dump := flag.Bool("j", false, "dump JSON")
	logged := flag.Bool("v", false, "write debug logs")
	parseOnly := flag.Bool("p", false, "parse without eval")
	list := flag.Bool("l", false, "list builtin functions and exit")
	flag.Parse()

	env := script.Builtins()
	if *list {
		for _, name := range env.Names() {
			f := env[name]
			fmt.Printf("%s\t%T\n", name, f)
		}
		return
	}

	inputs := []string{"-"}
	if flag.NArg() > 0 {
		inputs = flag.Args()
	}

	failed := false
	for _, input := range inputs {
		r, err := file(input)
		if err != nil {
			log.Fatalf("Error reading input %v: %v", input, err)
		}

		lexer := lexer.NewLexer(r)
		lexer.Name = input
		if input == "-" {
			lexer.Name = "stdin"
		}

		parser := script.NewParser(lexer)
		if *logged {
			parser.LogFunc = log.Print
		}

		for {
			line, err := parser.ParseLine()
			if err == io.EOF {
				break
			} else if err != nil {
				log.Printf("PARSE ERR: %+v", err)
				failed = true
				var unexpected *script.UnexpectedTokenError
				if errors.As(err, &unexpected) {
					continue
				}
				break
			}

			if *dump {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				_ = enc.Encode(line)
			}

			fmt.Printf("%03d: %v\n", line.Start.Line, line)
			if *parseOnly {
				continue
			}

			vals, err := env.Eval(line)
			if err != nil {
				fmt.Printf("ERR: %v\n", err)
				failed = true
			} else {
				fmt.Printf("=> %v\n", format(vals))
			}
		}

		r.Close()
	}

	if failed {
		os.Exit(1)
	}
}

func format(vals []any) string {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(strs, " ") + "]"
}

func file(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(name)
}
