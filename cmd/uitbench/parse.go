package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/3worlds/uit/space"
	"github.com/3worlds/uit/space/locator"
)

func (a *app) newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse point|box|sphere|locator TEXT",
		Short: "Parse a value and print its canonical form",
		Long: `Parses a value in its canonical text form and prints it back together
with a few derived measures. Examples:

  uitbench parse point "[1,2.5]"
  uitbench parse box "[[0,0],[10,10]]"
  uitbench parse sphere "[[0,0],2]"
  uitbench parse locator "[3,-4]"`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"point", "box", "sphere", "locator"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			switch args[0] {
			case "point":
				p, err := space.ParsePoint(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "point %s dim=%d\n", space.FormatPoint(p), p.Dim())

			case "box":
				b, err := space.ParseBox(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "box %s dim=%d centre=%s volume=%g cube=%v\n",
					space.FormatBox(b), b.Dim(), space.FormatPoint(b.Centre()), b.Volume(), b.IsCube())

			case "sphere":
				s, err := space.ParseSphere(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "sphere %s dim=%d bounds=%s\n",
					space.FormatSphere(s), s.Dim(), space.FormatBox(space.SphereBounds(s)))

			case "locator":
				l, err := locator.Parse(args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "locator %s dim=%d\n", l, l.Dim())

			default:
				return fmt.Errorf("unknown kind %q", args[0])
			}

			a.log.Debug("parsed", zap.String("kind", args[0]), zap.String("text", args[1]))
			return nil
		},
	}
}
