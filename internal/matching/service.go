// Package matching suggests categories for new transactions from the ones
// already stored, so a description the user categorized once is categorized
// the same way on the next import.
package matching

import (
	"context"
	"strings"
	"unicode"

	"github.com/MrJamesThe3rd/pastel/internal/transaction"
)

// minPatternLen keeps one or two letter descriptions from matching everything.
const minPatternLen = 3

type Repository interface {
	List(ctx context.Context, filter transaction.ListFilter) []*transaction.Transaction
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category of the stored transaction of type t whose
// description appears, word for word, inside description. The longest
// pattern wins and the most recent transaction breaks ties.
func (s *Service) Suggest(ctx context.Context, description string, t transaction.Type) (string, bool) {
	return suggest(s.repo.List(ctx, transaction.ListFilter{Type: &t}), normalize(description))
}

// Categorize replaces the category of every input that matches the history
// and returns how many were changed.
func (s *Service) Categorize(ctx context.Context, ins []transaction.Input) int {
	if len(ins) == 0 {
		return 0
	}

	history := s.repo.List(ctx, transaction.ListFilter{})
	byType := make(map[transaction.Type][]*transaction.Transaction)

	for _, tx := range history {
		byType[tx.Type] = append(byType[tx.Type], tx)
	}

	changed := 0

	for i := range ins {
		category, ok := suggest(byType[ins[i].Type], normalize(ins[i].Description))
		if ok && category != ins[i].Category {
			ins[i].Category = category
			changed++
		}
	}

	return changed
}

func suggest(history []*transaction.Transaction, target string) (string, bool) {
	if target == "" {
		return "", false
	}

	padded := " " + target + " "

	var best *transaction.Transaction

	bestLen := 0

	for _, tx := range history {
		pattern := normalize(tx.Description)
		if len(pattern) < minPatternLen || !strings.Contains(padded, " "+pattern+" ") {
			continue
		}

		if len(pattern) > bestLen || (len(pattern) == bestLen && !tx.Date.Before(best.Date)) {
			best, bestLen = tx, len(pattern)
		}
	}

	if best == nil {
		return "", false
	}

	return best.Category, true
}

// normalize lowercases s and keeps only its letter runs, so "UBER *TRIP 1234"
// and "Uber Trip" compare equal.
func normalize(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	return strings.Join(words, " ")
}
