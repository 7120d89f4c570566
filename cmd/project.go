package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
	"github.com/spf13/cobra"
)

// projectCmd is the parent of all project commands.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage stored projects with their risks, deadlines and change requests",
	Long: `Create and maintain projects in the configured store.

A project owns one penalty calculation, a risk register, its contractual
deadlines and its change requests. Running 'project calculate' refreshes the
"Pénalités de retard" risk from the computed cap.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// projectCreateCmd creates a blank project.
var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project with the default calculator",
	Long: `Create a project in phase O5 with default calculator inputs.

Examples:
  contractrisk project create --name "Centrale Toiture Lyon" --code LYO --type EPC
  contractrisk project create --name "Marché SEED Nord" --code NRD --type "Travaux AO Public" --status P1`,
	PreRunE: requireName,
	Run: func(cmd *cobra.Command, _ []string) {
		name, _ := cmd.Flags().GetString("name")
		code, _ := cmd.Flags().GetString("code")
		address, _ := cmd.Flags().GetString("address")
		projectType, _ := cmd.Flags().GetString("type")
		status, _ := cmd.Flags().GetString("status")
		url, _ := cmd.Flags().GetString("url")

		p := core.NewProject(name, code, address, schema.ProjectType(projectType))
		if status != "" {
			p.Status = schema.ProjectStatus(status)
		}
		p.ProjectURL = url

		created, err := core.CreateProject(rootCtx, projectStore(), p, time.Now())
		if err != nil {
			contract.LogFatal("Failed to create project", err)
		}
		fmt.Printf("Created project %s (%s)\n", created.ID, created.ProjectName)
	},
}

// projectListCmd lists the stored projects.
var projectListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored projects with their exposure",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecutePortfolio(rootCtx, cfg, projectStore()); err != nil {
			contract.LogFatal("Failed to list projects", err)
		}
	},
}

// projectShowCmd prints one project.
var projectShowCmd = &cobra.Command{
	Use:     "show <project-id>",
	Short:   "Show a project with its calculation, risks and deadlines",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := core.ExecuteProjectShow(rootCtx, cfg, projectStore(), args[0]); err != nil {
			contract.LogFatal("Failed to show project", err)
		}
	},
}

// projectDeleteCmd deletes a project and everything it owns.
var projectDeleteCmd = &cobra.Command{
	Use:     "delete <project-id>",
	Short:   "Delete a project with its risks, deadlines and change requests",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if err := projectStore().DeleteProject(rootCtx, args[0]); err != nil {
			contract.LogFatal("Failed to delete project", err)
		}
		fmt.Printf("Deleted project %s\n", args[0])
	},
}

// projectCalculateCmd recomputes the penalties of a project.
var projectCalculateCmd = &cobra.Command{
	Use:   "calculate <project-id>",
	Short: "Run the penalty calculator on a project and refresh its penalty risk",
	Long: `Compute the penalties of a stored project.

Without calculator flags the stored inputs are reused. Given flags are applied
on top of the stored inputs and saved with the results.

Examples:
  contractrisk project calculate 01HZX3...
  contractrisk project calculate 01HZX3... --mode seed --montant-marche 250000 --jours-retard 12`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		store := projectStore()
		p, err := store.GetProject(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to load project", err)
		}
		inputs, given, err := inputsFromFlags(cmd, p.Inputs)
		if err != nil {
			contract.LogFatal("Invalid calculator inputs", err)
		}
		var override *schema.CalculatorInputs
		if given {
			override = &inputs
		}
		if err := core.ExecuteProjectCalculate(rootCtx, cfg, store, args[0], override); err != nil {
			contract.LogFatal("Project calculation failed", err)
		}
	},
}

// projectImportCmd loads a project from a file.
var projectImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a project from a YAML or JSON file",
	Long: `Import a project saved with 'project export' or written by hand.

The project keeps its ID when it has one, so importing twice replaces it.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		p, err := core.LoadProjectFile(args[0])
		if err != nil {
			contract.LogFatal("Failed to read project file", err)
		}
		created, err := core.CreateProject(rootCtx, projectStore(), p, time.Now())
		if err != nil {
			contract.LogFatal("Failed to import project", err)
		}
		fmt.Printf("Imported project %s (%s)\n", created.ID, created.ProjectName)
	},
}

// projectExportCmd writes a project to a file.
var projectExportCmd = &cobra.Command{
	Use:     "export <project-id> <file>",
	Short:   "Export a project to a YAML or JSON file (by extension)",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		p, err := projectStore().GetProject(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Failed to load project", err)
		}
		if err := core.WriteProjectFile(args[1], p); err != nil {
			contract.LogFatal("Failed to export project", err)
		}
		fmt.Printf("Exported project %s to %s\n", p.ID, args[1])
	},
}

// riskCmd is the parent of the risk register commands.
var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Edit the risk register of a project",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// riskAddCmd appends a risk to a project.
var riskAddCmd = &cobra.Command{
	Use:   "add <project-id>",
	Short: "Add a risk to a project",
	Long: `Add a risk to the register of a project.

Probabilities are percentages between 0 and 100. Numbers left out stay empty
and count as zero in the exposure.

Examples:
  contractrisk project risk add 01HZX3... --name "Retard raccordement" --max 40000 --before 60 --mitigation 2000 --after 20`,
	Args:    cobra.ExactArgs(1),
	PreRunE: requireName,
	Run: func(cmd *cobra.Command, args []string) {
		risk := riskFromFlags(cmd)
		p, err := core.AddRisk(rootCtx, projectStore(), args[0], risk, time.Now())
		if err != nil {
			contract.LogFatal("Failed to add risk", err)
		}
		added := p.Risks[len(p.Risks)-1]
		fmt.Printf("Added risk %s to project %s\n", added.UID, p.ID)
	},
}

// riskRemoveCmd removes a risk from a project.
var riskRemoveCmd = &cobra.Command{
	Use:     "remove <project-id> <risk-uid-or-id>",
	Short:   "Remove a risk from a project",
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		if _, err := core.RemoveRisk(rootCtx, projectStore(), args[0], args[1], time.Now()); err != nil {
			contract.LogFatal("Failed to remove risk", err)
		}
		fmt.Printf("Removed risk %s from project %s\n", args[1], args[0])
	},
}

// deadlineCmd is the parent of the deadline commands.
var deadlineCmd = &cobra.Command{
	Use:   "deadline",
	Short: "Edit the contractual deadlines of a project",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// deadlineAddCmd appends a deadline to a project.
var deadlineAddCmd = &cobra.Command{
	Use:   "add <project-id>",
	Short: "Add a contractual deadline to a project",
	Long: `Add a dated obligation to a project.

Examples:
  contractrisk project deadline add 01HZX3... --description "Mise en service" --date 2025-09-30
  contractrisk project deadline add 01HZX3... --description "Acompte 30%" --date 2025-06-01 --type "Jalon de Paiement" --amount 90000`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		description, _ := flags.GetString("description")
		date, _ := flags.GetString("date")
		notice, _ := flags.GetInt("notice-months")
		deadlineType, _ := flags.GetString("type")

		d := schema.ContractDeadline{
			Description:          description,
			Date:                 date,
			NoticePeriodInMonths: notice,
			Type:                 schema.DeadlineType(deadlineType),
		}
		if flags.Changed("amount") {
			amount, _ := flags.GetFloat64("amount")
			d.Amount = schema.Float(amount)
		}

		p, err := core.AddDeadline(rootCtx, projectStore(), args[0], d, time.Now())
		if err != nil {
			contract.LogFatal("Failed to add deadline", err)
		}
		fmt.Printf("Added deadline %s to project %s\n", p.Deadlines[len(p.Deadlines)-1].ID, p.ID)
	},
}

// changeCmd is the parent of the change request commands.
var changeCmd = &cobra.Command{
	Use:   "change",
	Short: "Track change requests of a project",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// changeAddCmd registers a change request.
var changeAddCmd = &cobra.Command{
	Use:   "add <project-id>",
	Short: "Register a change request on a project",
	Long: `Register a change request. It is numbered CHG-<project code>-NNN and starts
in the "Demandé" state.

Examples:
  contractrisk project change add 01HZX3... --title "Ajout ombrières" --cost 35000 --priority Élevée`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		title, _ := flags.GetString("title")
		description, _ := flags.GetString("description")
		priority, _ := flags.GetString("priority")
		requester, _ := flags.GetString("requester")

		c := schema.ChangeRequest{
			Title:         title,
			Description:   description,
			Priority:      schema.ChangePriority(priority),
			RequesterName: requester,
		}
		if flags.Changed("cost") {
			cost, _ := flags.GetFloat64("cost")
			c.EstimatedCost = schema.Float(cost)
		}

		created, err := core.AddChangeRequest(rootCtx, projectStore(), args[0], c, time.Now())
		if err != nil {
			contract.LogFatal("Failed to add change request", err)
		}
		fmt.Printf("Registered change request %s (%s)\n", created.ChangeNumber, created.ID)
	},
}

// changeStatusCmd moves a change request through its workflow.
var changeStatusCmd = &cobra.Command{
	Use:   "status <change-id-or-number> <status>",
	Short: "Set the status of a change request",
	Long: `Set the workflow state of a change request.

Valid states: Demandé, En Analyse, Approuvé, Rejeté, Implémenté.

Examples:
  contractrisk project change status CHG-LYO-001 Approuvé`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		c, err := core.SetChangeStatus(rootCtx, projectStore(), args[0], schema.ChangeStatus(args[1]), time.Now())
		if err != nil {
			contract.LogFatal("Failed to update change request", err)
		}
		fmt.Printf("Change request %s is now %s\n", c.ChangeNumber, c.Status)
	},
}

// changeListCmd lists change requests with their statistics.
var changeListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List change requests, optionally filtered by project and status",
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		projectID, _ := cmd.Flags().GetString("project")
		status, _ := cmd.Flags().GetString("status")
		if err := core.ExecuteChanges(rootCtx, cfg, projectStore(), projectID, schema.ChangeStatus(status)); err != nil {
			contract.LogFatal("Failed to list change requests", err)
		}
	},
}

// riskFromFlags builds a risk from the risk add flags.
// Numbers that were not given stay nil.
func riskFromFlags(cmd *cobra.Command) schema.RiskItem {
	flags := cmd.Flags()
	id, _ := flags.GetString("id")
	name, _ := flags.GetString("name")
	riskType, _ := flags.GetString("type")
	description, _ := flags.GetString("description")
	explanation, _ := flags.GetString("explanation")

	risk := schema.RiskItem{
		ID:                id,
		Risque:            name,
		TypeRisque:        riskType,
		Description:       description,
		ExplicationCalcul: explanation,
	}
	optional := map[string]**float64{
		"max":        &risk.CoutProbableMaximal,
		"before":     &risk.ProbabiliteAvant,
		"mitigation": &risk.CoutMitigation,
		"after":      &risk.ProbabiliteApres,
	}
	for flagName, field := range optional {
		if !flags.Changed(flagName) {
			continue
		}
		v, _ := flags.GetFloat64(flagName)
		*field = schema.Float(v)
	}
	return risk
}

// errMissingName is returned when a command needs a non-empty --name.
var errMissingName = errors.New("--name is required")

// requireName is a PreRunE guard for commands that need --name.
func requireName(cmd *cobra.Command, args []string) error {
	if name, _ := cmd.Flags().GetString("name"); name == "" {
		return errMissingName
	}
	return sharedSetup(rootCtx, cmd, args)
}
