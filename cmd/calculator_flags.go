package cmd

import (
	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/schema"
	"github.com/spf13/cobra"
)

// calculatorFloatFlags maps the numeric calculator flags to their input fields.
var calculatorFloatFlags = []struct {
	name  string
	usage string
	field func(*schema.CalculatorInputs) *float64
}{
	{"centrale-total", "PV: total plant investment (€)", func(in *schema.CalculatorInputs) *float64 { return &in.CentraleTotal }},
	{"om-annuel", "PV: yearly O&M cost (€)", func(in *schema.CalculatorInputs) *float64 { return &in.OAndMAnnuel }},
	{"production-mwh", "PV: yearly production (MWh)", func(in *schema.CalculatorInputs) *float64 { return &in.ProductionAnnuelMWh }},
	{"lifetime-years", "PV: plant lifetime (years)", func(in *schema.CalculatorInputs) *float64 { return &in.PlantLifetimeYears }},
	{"self-consumption", "PV: self-consumption rate (%)", func(in *schema.CalculatorInputs) *float64 { return &in.SelfConsumptionRate }},
	{"grid-price", "PV: grid price (€/MWh)", func(in *schema.CalculatorInputs) *float64 { return &in.GridPriceMWh }},
	{"cap-percentage", "PV: penalty cap (% of plant total)", func(in *schema.CalculatorInputs) *float64 { return &in.CapPercentage }},
	{"admin-fees", "PV: administrative fees (%)", func(in *schema.CalculatorInputs) *float64 { return &in.AdministrativeFeesPercentage }},
	{"montant-marche", "SEED: contract amount (€)", func(in *schema.CalculatorInputs) *float64 { return &in.MontantMarche }},
	{"taux-penalite", "SEED: daily penalty rate (%)", func(in *schema.CalculatorInputs) *float64 { return &in.TauxPenaliteJournalier }},
	{"plafond-penalites", "SEED: penalty cap (% of contract)", func(in *schema.CalculatorInputs) *float64 { return &in.PlafondPenalitesPourcentage }},
}

// addCalculatorFlags registers the calculator inputs on cmd.
// They are read straight from the command, not through Viper.
func addCalculatorFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", string(schema.PVMode), "Calculation mode: pv or seed")
	cmd.Flags().String("inputs-file", "", "YAML or JSON file with calculator inputs")
	for _, f := range calculatorFloatFlags {
		cmd.Flags().Float64(f.name, 0, f.usage)
	}
	cmd.Flags().Int("jours-retard", 0, "SEED: number of delay days")
}

// inputsFromFlags overlays the flags set on cmd on base.
// The boolean reports whether any calculator flag or file was given.
func inputsFromFlags(cmd *cobra.Command, base schema.CalculatorInputs) (schema.CalculatorInputs, bool, error) {
	flags := cmd.Flags()
	in := base
	given := false

	if flags.Changed("inputs-file") {
		path, _ := flags.GetString("inputs-file")
		fromFile, err := core.LoadInputsFile(path)
		if err != nil {
			return schema.CalculatorInputs{}, false, err
		}
		in = fromFile
		given = true
	}
	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		in.CalculationMode = schema.CalculationMode(mode)
		given = true
	}
	for _, f := range calculatorFloatFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetFloat64(f.name)
		if err != nil {
			return schema.CalculatorInputs{}, false, err
		}
		*f.field(&in) = v
		given = true
	}
	if flags.Changed("jours-retard") {
		days, err := flags.GetInt("jours-retard")
		if err != nil {
			return schema.CalculatorInputs{}, false, err
		}
		in.NombreJoursRetard = days
		given = true
	}
	return in, given, nil
}
