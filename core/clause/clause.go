// Package clause drafts the late-delivery penalty clause of a contract.
package clause

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/internal/locale"
	"github.com/helexia/contractrisk/schema"
)

// promptPrefix introduces the default clause when asking a text generator for a rewrite.
const promptPrefix = "Rédige une clause de pénalité de retard pour un contrat. Voici les détails:\n"

// ErrNoGenerator is returned by Generate when no text generator is configured.
var ErrNoGenerator = errors.New("no text generator configured")

// Default returns the standard clause for a calculation.
func Default(inputs schema.CalculatorInputs, results schema.FullCalculationResults) string {
	if inputs.EffectiveMode() == schema.SeedMode {
		rate := locale.Fixed(inputs.TauxPenaliteJournalier, 2) + " %"
		capped := locale.Fixed(inputs.PlafondPenalitesPourcentage, 0) + " %"
		return fmt.Sprintf("En cas de retard dans l'exécution des prestations, une pénalité de %s par jour de retard sera appliquée sur le montant total HT du marché.\n\n"+
			"Le montant total de ces pénalités est plafonné à %s du montant total HT du marché.", rate, capped)
	}

	daily := locale.Fixed(math.Ceil(results.TotalImpactJournalier), 0)
	capped := locale.Fixed(inputs.CapPercentage, 0) + " %"
	return fmt.Sprintf("En cas de non-respect de la Date de Remise des Travaux Garantie ou en cas de non-respect de la Date de Réception Garantie du fait d’un retard imputable à Helexia et sauf cas de prolongation légitime stipulés ci-dessus, une Pénalité de Retard de %s euros HT Forfaitaire par jour de retard s’appliquera.\n\n"+
		"Les Pénalités de Retard susvisées seront limitées à un montant égal à %s du Prix.", daily, capped)
}

// Prompt builds the generation prompt around a default clause.
func Prompt(defaultClause string) string {
	return promptPrefix + defaultClause
}

// Generate asks gen to rewrite the default clause.
// On any failure it returns the default clause together with the error,
// so callers always have a usable text.
func Generate(ctx context.Context, gen contract.TextGenerator, inputs schema.CalculatorInputs, results schema.FullCalculationResults) (string, error) {
	fallback := Default(inputs, results)
	if gen == nil {
		return fallback, ErrNoGenerator
	}

	text, err := gen.Generate(ctx, Prompt(fallback))
	if err != nil {
		contract.Logger.Warn().Err(err).Msg("clause generation failed, using default clause")
		return fallback, fmt.Errorf("generate clause: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback, errors.New("generate clause: empty response")
	}
	return text, nil
}
