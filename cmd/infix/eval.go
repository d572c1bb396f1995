package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	inname string
	verb   string
	echo   bool
)

var evalCmd = &cobra.Command{
	Use:   "eval [expr...]",
	Short: "Evaluate expressions",
	Long: `Evaluate each argument as an expression. With --in, or with no arguments,
each non-blank input line is an expression.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts, verb)
		if err != nil {
			return err
		}
		srcs := args
		if inname != "" || len(args) == 0 {
			lines, err := readLines(inname)
			if err != nil {
				return err
			}
			srcs = append(lines, srcs...)
		}
		failed := false
		out := cmd.OutOrStdout()
		for _, src := range srcs {
			if echo {
				toks, err := s.postfix(src)
				if err == nil {
					fmt.Fprintf(out, "%v : ", texts(toks))
				}
			}
			r, err := s.eval(src)
			if err != nil {
				log.Printf("%s: %v", src, err)
				failed = true
				continue
			}
			fmt.Fprintln(out, r)
		}
		if failed {
			return fmt.Errorf("some expressions failed")
		}
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&inname, "in", "", "input file, one expression per line (- for stdin)")
	evalCmd.Flags().StringVar(&verb, "fmt", "", "result formatting string for numbers (default %g)")
	evalCmd.Flags().BoolVar(&echo, "echo", false, "print postfix before each result")
	rootCmd.AddCommand(evalCmd)
}

// readLines reads the non-blank lines of a file, or of stdin if name is
// empty or -.
func readLines(name string) ([]string, error) {
	var in io.Reader = os.Stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	var lines []string
	scan := bufio.NewScanner(in)
	for scan.Scan() {
		if line := strings.TrimSpace(scan.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scan.Err()
}
