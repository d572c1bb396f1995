package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/infix"
)

var (
	asYAML bool
	plain  bool
)

var postfixCmd = &cobra.Command{
	Use:   "postfix expr...",
	Short: "Print the postfix tokens of expressions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(opts, "")
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, src := range args {
			toks, err := s.postfix(src)
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}
			var b []byte
			switch {
			case plain:
				b = []byte(texts(toks) + "\n")
			case asYAML:
				b, err = yaml.Marshal(toks)
			default:
				var buf bytes.Buffer
				enc := json.NewEncoder(&buf)
				enc.SetEscapeHTML(false)
				err = enc.Encode(toks)
				b = buf.Bytes()
			}
			if err != nil {
				return err
			}
			out.Write(b)
		}
		return nil
	},
}

func init() {
	postfixCmd.Flags().BoolVar(&asYAML, "yaml", false, "print tokens as YAML instead of JSON")
	postfixCmd.Flags().BoolVar(&plain, "plain", false, "print only token texts")
	rootCmd.AddCommand(postfixCmd)
}

func texts(toks []infix.Token) string {
	s := make([]string, len(toks))
	for i, tok := range toks {
		s[i] = tok.Text
	}
	return strings.Join(s, " ")
}
