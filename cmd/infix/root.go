package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	opts    settings
	given   []string
)

var rootCmd = &cobra.Command{
	Use:   "infix",
	Short: "Compile and evaluate infix expressions",
	Long: `infix compiles infix expressions to postfix and evaluates them with one
of several operator tables:

  bool   | & !            over true/false/1/0
  float  + - * / % ^      over float64
  big    + - * / % ^ exp ln over arbitrary-precision floats
  set    + - &            over sets of comma-separated items`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "TOML or YAML file with table, prec, pattern, and vars")
	f.StringVarP(&opts.Table, "table", "t", "float", "operator table: bool, float, big, or set")
	f.UintVarP(&opts.Prec, "prec", "p", 64, "precision of big calculations in bits")
	f.StringVar(&opts.Pattern, "pattern", "", "operand pattern (default depends on table)")
	f.StringArrayVar(&given, "given", nil, "name=value variable definition (any number of times)")
}

// loadSettings layers the config file under the command-line flags.
func loadSettings(cmd *cobra.Command) error {
	vars := make(map[string]string)
	if cfgFile != "" {
		file, err := readSettings(cfgFile)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if !f.Changed("table") && file.Table != "" {
			opts.Table = file.Table
		}
		if !f.Changed("prec") && file.Prec != 0 {
			opts.Prec = file.Prec
		}
		if !f.Changed("pattern") && file.Pattern != "" {
			opts.Pattern = file.Pattern
		}
		for k, v := range file.Vars {
			vars[k] = v
		}
	}
	for _, s := range given {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		vars[strings.TrimSpace(d[0])] = strings.TrimSpace(d[1])
	}
	opts.Vars = vars
	switch opts.Table {
	case "bool", "float", "set":
	case "big":
		if opts.Prec == 0 {
			return fmt.Errorf("precision must be positive")
		}
	default:
		return fmt.Errorf("unknown table %q", opts.Table)
	}
	return nil
}
