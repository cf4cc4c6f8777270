package cmd

import (
	"github.com/spf13/cobra"

	"github.com/govalues/ucum"
	"github.com/govalues/ucum/decimal"
)

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a measured value between comparable units",
		Long: `Convert a measured value between comparable units.

Integers are exact counts. Values with a fraction or an exponent carry as
many significant digits as were written and the result keeps them:

  ucum convert 2.54 cm [in_i]     prints 1.00 [in_i]`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := decimal.Parse(args[0])
			if err != nil {
				return err
			}
			r, err := a.svc.Convert(v, args[1], args[2])
			if err != nil {
				return err
			}
			p := ucum.Pair{Value: r, Code: args[2]}
			return a.print(cmd, p, p.String())
		},
	}
}

func (a *app) algebraCmd(use, short string, op func(*ucum.Service, ucum.Pair, ucum.Pair) (ucum.Pair, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <value> <unit> <value> <unit>",
		Short: short,
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := pair(args[0], args[1])
			if err != nil {
				return err
			}
			y, err := pair(args[2], args[3])
			if err != nil {
				return err
			}
			p, err := op(a.svc, x, y)
			if err != nil {
				return err
			}
			return a.print(cmd, p, p.String())
		},
	}
}

func pair(value, unit string) (ucum.Pair, error) {
	v, err := decimal.Parse(value)
	if err != nil {
		return ucum.Pair{}, err
	}
	return ucum.Pair{Value: v, Code: unit}, nil
}
