// Package main implements the CLI interface for teachdb.
//
// EDUCATIONAL NOTES:
// ------------------
// This is the entry point for our database CLI. It provides:
// 1. A REPL (Read-Eval-Print Loop) for interactive SELECT/LOAD queries
// 2. Command-line flags for configuration
// 3. Special "." commands for database administration
// 4. An optional HTTP introspection server (-serve)
//
// The REPL pattern is common in interactive tools:
// - Read: Get input from user
// - Eval: Parse and execute the input
// - Print: Display the result
// - Loop: Repeat until user exits
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"teachdb/internal/catalog"
	"teachdb/internal/query"
	"teachdb/internal/sql/lexer"
	"teachdb/internal/sql/parser"
	"teachdb/internal/web"
)

const (
	version = "0.1.0"
	banner  = `
  _                 _       _ _
 | |_ ___  __ _  ___| |__   __| | |__
 | __/ _ \/ _' |/ __| '_ \ / _' | '_ \
 | ||  __/ (_| | (__| | | | (_| | |_) |
  \__\___|\__,_|\___|_| |_|\__,_|_.__/

  A Teaching Database - Version %s
  Type '.help' for usage hints or '.quit' to exit.
`
)

// dotCommands are special commands starting with '.'.
var dotCommands = map[string]string{
	".help":   "Show this help message",
	".quit":   "Exit the program",
	".exit":   "Exit the program (alias for .quit)",
	".tables": "List all open tables",
	".clear":  "Clear the screen",
}

func main() {
	dbDir := flag.String("db", "teachdb_data", "Path to the database directory")
	showVersion := flag.Bool("version", false, "Show version and exit")
	serve := flag.Bool("serve", false, "Start the HTTP introspection server instead of the REPL")
	port := flag.Int("port", 8080, "Port for -serve")
	flag.Parse()

	if *showVersion {
		fmt.Printf("teachdb version %s\n", version)
		return
	}

	cat, err := catalog.Open(*dbDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer cat.Close()

	exec := query.NewExecutor(cat)

	if *serve {
		server := web.NewServer(*port, exec)
		if err := server.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error running server: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf(banner, version)

	tables := cat.ListTables()
	if len(tables) > 0 {
		sort.Strings(tables)
		fmt.Printf("Opened %d table(s): %s\n\n", len(tables), strings.Join(tables, ", "))
	}

	repl(exec)
}

// repl implements the Read-Eval-Print Loop.
func repl(exec *query.Executor) {
	reader := bufio.NewReader(os.Stdin)
	var inputBuffer strings.Builder

	for {
		if inputBuffer.Len() == 0 {
			fmt.Print("teachdb> ")
		} else {
			fmt.Print("     ...> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			if err.Error() == "EOF" {
				fmt.Println("\nGoodbye!")
				return
			}
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			continue
		}

		line = strings.TrimRight(line, "\n\r")

		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(strings.TrimSpace(line), ".") {
			handleDotCommand(strings.TrimSpace(line), exec)
			continue
		}

		inputBuffer.WriteString(line)

		input := strings.TrimSpace(inputBuffer.String())
		if !strings.HasSuffix(input, ";") {
			inputBuffer.WriteString(" ")
			continue
		}

		input = strings.TrimSuffix(input, ";")
		inputBuffer.Reset()

		executeStatement(input, exec)
	}
}

// handleDotCommand processes special dot commands.
func handleDotCommand(cmd string, exec *query.Executor) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case ".help":
		fmt.Println("\nAvailable commands:")
		for cmd, desc := range dotCommands {
			fmt.Printf("  %-12s %s\n", cmd, desc)
		}
		fmt.Println("\nQuery Commands:")
		fmt.Println("  SELECT <key|value|key, value|*|COUNT(*)> FROM table [WHERE cond [AND cond]*]")
		fmt.Println("  LOAD table FROM 'path' [WITH INDEX]")
		fmt.Println()

	case ".quit", ".exit":
		fmt.Println("Goodbye!")
		os.Exit(0)

	case ".tables":
		tables := exec.Catalog().ListTables()
		if len(tables) == 0 {
			fmt.Println("No tables found.")
			return
		}
		sort.Strings(tables)
		fmt.Println("Tables:")
		for _, name := range tables {
			fmt.Printf("  %s\n", name)
		}

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		fmt.Printf("Unknown command: %s\n", parts[0])
		fmt.Println("Type '.help' for available commands.")
	}
}

// executeStatement parses and executes one SELECT or LOAD statement.
func executeStatement(input string, exec *query.Executor) {
	p := parser.New(lexer.New(input))
	stmt, err := p.Parse()
	if err != nil {
		fmt.Printf("Parse error: %v\n", err)
		return
	}

	result, err := exec.Run(stmt)
	if err != nil {
		fmt.Printf("Execution error: %v\n", err)
		return
	}

	switch v := result.(type) {
	case *query.Result:
		printResult(v)
	case int:
		fmt.Printf("%d row(s) loaded.\n", v)
	}
}

// printResult renders a SELECT result the way a REPL user expects: one
// line per row, or a bare count for COUNT(*).
func printResult(res *query.Result) {
	if res.Target == query.TargetCount {
		fmt.Printf("%d\n", res.Count)
		return
	}
	for _, row := range res.Rows {
		switch res.Target {
		case query.TargetKey:
			fmt.Println(row.Key)
		case query.TargetValue:
			fmt.Println(row.Value)
		default:
			fmt.Printf("%d, %s\n", row.Key, row.Value)
		}
	}
	fmt.Printf("(%d row(s))\n", len(res.Rows))
}
