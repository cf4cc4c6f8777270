package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/govalues/ucum"
	"github.com/govalues/ucum/decimal"
)

type validation struct {
	Unit    string `json:"unit"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func (a *app) validateCmd() *cobra.Command {
	var property, canonical string
	cmd := &cobra.Command{
		Use:   "validate <unit>...",
		Short: "Check that unit expressions are valid",
		Long: `Check that unit expressions are valid.

With --property the units must also measure that property, and with
--canonical their canonical units must be exactly the given text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var results []validation
			var lines []string
			invalid := 0
			for _, unit := range args {
				var err error
				switch {
				case property != "":
					err = a.svc.ValidateInProperty(unit, property)
				case canonical != "":
					err = a.svc.ValidateCanonicalUnits(unit, canonical)
				default:
					err = a.svc.Validate(unit)
				}
				r := validation{Unit: unit, Valid: err == nil}
				if err != nil {
					r.Message = err.Error()
					invalid++
					lines = append(lines, fmt.Sprintf("%v: invalid: %v", unit, err))
				} else {
					lines = append(lines, fmt.Sprintf("%v: valid", unit))
				}
				results = append(results, r)
			}
			if err := a.print(cmd, results, strings.Join(lines, "\n")); err != nil {
				return err
			}
			if invalid > 0 {
				return errors.Errorf("%v of %v units are invalid", invalid, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&property, "property", "", "property the units must measure, such as length")
	cmd.Flags().StringVar(&canonical, "canonical", "", "expected canonical units")
	cmd.MarkFlagsMutuallyExclusive("property", "canonical")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the consistency of the unit dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			problems := a.svc.ValidateUCUM()
			text := "dataset is consistent"
			if len(problems) > 0 {
				text = strings.Join(problems, "\n")
			}
			if err := a.print(cmd, problems, text); err != nil {
				return err
			}
			if len(problems) > 0 {
				return errors.Errorf("dataset has %v problem(s)", len(problems))
			}
			return nil
		},
	}
}

func (a *app) analyseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "analyse <unit>",
		Aliases: []string{"analyze"},
		Short:   "Describe a unit expression in words",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.svc.Analyse(args[0])
			if err != nil {
				return err
			}
			return a.print(cmd, map[string]string{"unit": args[0], "description": s}, s)
		},
	}
}

func (a *app) canonicalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "canonical <unit> [value]",
		Short: "Print the canonical base units of a unit, or of a measured value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				cu, err := a.svc.GetCanonicalUnits(args[0])
				if err != nil {
					return err
				}
				return a.print(cmd, map[string]string{"unit": args[0], "canonical": cu}, cu)
			}
			v, err := decimal.Parse(args[1])
			if err != nil {
				return err
			}
			p, err := a.svc.GetCanonicalForm(ucum.Pair{Value: v, Code: args[0]})
			if err != nil {
				return err
			}
			return a.print(cmd, p, p.String())
		},
	}
}

func (a *app) formsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forms <unit>",
		Short: "List the defined units with the same canonical units",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			us, err := a.svc.GetDefinedForms(args[0])
			if err != nil {
				return err
			}
			codes := make([]string, 0, len(us))
			lines := make([]string, 0, len(us))
			for _, u := range us {
				codes = append(codes, u.Code)
				lines = append(lines, fmt.Sprintf("%v\t%v", u.Code, u.Name()))
			}
			return a.print(cmd, codes, strings.Join(lines, "\n"))
		},
	}
}

func (a *app) propertiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List the properties measured by the units of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			props := a.svc.Properties()
			return a.print(cmd, props, strings.Join(props, "\n"))
		},
	}
}
