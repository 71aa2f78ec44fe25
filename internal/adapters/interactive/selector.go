package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/plugrelay/internal/domain/config"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
	"github.com/trebuchet-org/plugrelay/internal/usecase"
)

// SelectorAdapter handles interactive selection
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) (*SelectorAdapter, error) {
	return &SelectorAdapter{config: cfg}, nil
}

// SelectPending selects a queued multisig transaction to relay
func (s *SelectorAdapter) SelectPending(ctx context.Context, txs []*models.PendingMultisigTransaction, prompt string) (*models.PendingMultisigTransaction, error) {
	if s.config.NonInteractive {
		return nil, fmt.Errorf("interactive selection not available in non-interactive mode")
	}

	if len(txs) == 0 {
		return nil, fmt.Errorf("no transactions provided for selection")
	}

	if len(txs) == 1 {
		return txs[0], nil
	}

	options := formatPendingOptions(txs)

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             options,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(options),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}

	return txs[index], nil
}

// Confirm asks a yes/no question. Non-interactive runs are treated as confirmed.
func (s *SelectorAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	confirm := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	if _, err := confirm.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// formatPendingOptions creates display strings for transaction selection
func formatPendingOptions(txs []*models.PendingMultisigTransaction) []string {
	options := make([]string, len(txs))
	for i, tx := range txs {
		nonce := color.New(color.FgWhite, color.Bold).Sprintf("#%d", tx.Nonce)
		to := color.New(color.FgBlue).Sprint(tx.To.Hex())
		confirmations := fmt.Sprintf("%d/%d", len(tx.Confirmations), tx.ConfirmationsRequired)
		options[i] = fmt.Sprintf("%s %s → %s [%s]", nonce, shortHash(tx.SafeTxHash.Hex()), to, confirmations)
	}
	return options
}

func shortHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:10] + "…" + h[len(h)-4:]
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.InteractiveSelector = (*SelectorAdapter)(nil)
