// Package parser turns a spoken or typed utterance into transactions by
// running correction, segmentation, amount extraction, direction
// classification and category resolution in that order.
package parser

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/category"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/direction"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/numeral"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/segmenter"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/signals"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/speech"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

// amounts are kept to two decimal places
const amountPlaces = 2

// Parser extracts transactions from free text. The zero value is not usable;
// call NewParser. A Parser is safe for concurrent use.
type Parser struct {
	corrector *speech.Corrector
}

// NewParser creates a parser with the built-in speech corrections.
func NewParser() *Parser {
	return NewParserWithRules(nil)
}

// NewParserWithRules creates a parser whose corrector runs extra rules ahead
// of the built-in ones.
func NewParserWithRules(extra []speech.Rule) *Parser {
	return &Parser{corrector: speech.NewCorrector(slices.Concat(extra, speech.DefaultRules()))}
}

var defaultParser = NewParser()

// Parse runs the default parser.
func Parse(text string, cats []common.Category) common.ParseResult {
	return defaultParser.Parse(text, cats)
}

// SuggestCategory runs the default parser's category suggestion.
func SuggestCategory(text string, cats []common.Category, dir common.Direction) string {
	return defaultParser.SuggestCategory(text, cats, dir)
}

// Parse returns every transaction found in text, in utterance order.
// OriginalText is always text as given. Transactions is empty only when no
// amount could be found anywhere in text.
func (p *Parser) Parse(text string, cats []common.Category) common.ParseResult {
	result := common.ParseResult{
		Transactions: []common.ParsedTransaction{},
		OriginalText: text,
	}
	if strings.TrimSpace(text) == "" {
		return result
	}

	corrected := p.corrector.Correct(text)
	global := signals.Analyze(corrected)

	for _, clause := range segmenter.Split(corrected, global) {
		result.Transactions = append(result.Transactions, p.parseClause(clause, cats)...)
	}

	// segmentation may have cut every amount away from its context
	if len(result.Transactions) == 0 {
		result.Transactions = append(result.Transactions, p.parseClause(corrected, cats)...)
	}
	return result
}

// SuggestCategory resolves a category for partially typed text without
// requiring an amount. It is meant for live "did you mean" hints.
func (p *Parser) SuggestCategory(text string, cats []common.Category, dir common.Direction) string {
	corrected := p.corrector.Correct(text)
	return category.Resolve(corrected, cats, dir, signals.Analyze(corrected))
}

// parseClause emits one transaction per amount in clause. All of them share
// the clause's direction and category.
func (p *Parser) parseClause(clause string, cats []common.Category) []common.ParsedTransaction {
	sig := signals.Analyze(clause)

	amounts := numeral.ExtractAmounts(clause, sig)
	if len(amounts) == 0 {
		return nil
	}

	dir := direction.Classify(clause)
	categoryID := category.Resolve(clause, cats, dir, sig)

	txs := make([]common.ParsedTransaction, 0, len(amounts))
	for _, a := range amounts {
		amount := decimal.NewFromFloat(a).Round(amountPlaces)
		if !amount.IsPositive() {
			continue
		}
		txs = append(txs, common.ParsedTransaction{
			Direction:  dir,
			Amount:     amount,
			CategoryID: categoryID,
			Note:       clause,
		})
	}
	return txs
}
