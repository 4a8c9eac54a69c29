package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/peterh/liner"

	"github.com/paradb/paradb/internal/parser"
	"github.com/paradb/paradb/internal/storage"
	"github.com/paradb/paradb/internal/types"
)

func main() {
	workers := flag.Int("workers", runtime.NumCPU(), "size of the fixed query worker pool")
	logLevel := flag.String("log-level", "warning", "log level: debug, info, warning, error, none")
	flag.Parse()

	level, err := types.ParseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := types.InitLogger(level, os.Stderr)

	db, err := storage.Open(storage.Config{Workers: *workers, Logger: logger})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	fmt.Println("paradb")
	fmt.Println("Type 'exit' to quit")

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("> ")
		if err != nil {
			// EOF or interrupt ends the session.
			fmt.Println("Goodbye!")
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") {
			fmt.Println("Goodbye!")
			break
		}
		line.AppendHistory(input)

		stmt, err := parser.ParseStatement(input)
		if err != nil {
			fmt.Printf("Error parsing statement: %v\n", err)
			continue
		}

		result, err := stmt.Execute(db)
		if err != nil {
			fmt.Printf("Error executing statement: %v\n", err)
			continue
		}

		switch r := result.(type) {
		case *parser.SelectResult:
			printSelectResult(r)
		case []string:
			for _, name := range r {
				fmt.Println(name)
			}
		case nil:
			fmt.Println("OK")
		default:
			fmt.Println(r)
		}
	}
}

// printSelectResult renders one output column per requested operation, in
// operation order, with rows aligned under their headers.
func printSelectResult(r *parser.SelectResult) {
	if len(r.Columns) == 0 {
		fmt.Println("Empty result set")
		return
	}

	widths := make([]int, len(r.Operations))
	height := 0
	for i, op := range r.Operations {
		widths[i] = len(op)
		for _, v := range r.Columns[i] {
			if n := len(v.String()); n > widths[i] {
				widths[i] = n
			}
		}
		if len(r.Columns[i]) > height {
			height = len(r.Columns[i])
		}
	}

	for i, op := range r.Operations {
		if i > 0 {
			fmt.Print(" | ")
		}
		fmt.Printf("%-*s", widths[i], op)
	}
	fmt.Println()

	for i := range r.Operations {
		if i > 0 {
			fmt.Print("-+-")
		}
		fmt.Print(strings.Repeat("-", widths[i]))
	}
	fmt.Println()

	for row := 0; row < height; row++ {
		for i := range r.Operations {
			if i > 0 {
				fmt.Print(" | ")
			}
			cell := ""
			if row < len(r.Columns[i]) {
				cell = r.Columns[i][row].String()
			}
			fmt.Printf("%-*s", widths[i], cell)
		}
		fmt.Println()
	}
}
