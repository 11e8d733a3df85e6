package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/echo-capture/internal/domain/capture/batch"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/catalog"
	"github.com/FACorreiaa/echo-capture/internal/domain/capture/repository"
	"github.com/FACorreiaa/echo-capture/internal/domain/common"
)

const stamp = "2006-01-02 15:04"

var (
	expenseTag = color.New(color.BgRed, color.FgWhite)
	incomeTag  = color.New(color.BgGreen, color.FgBlack)
	amountTag  = color.New(color.BgWhite, color.FgBlack)
	dateTag    = color.New(color.BgYellow, color.FgBlack)
	mutedTag   = color.New(color.FgHiBlack)
)

func directionTag(dir common.Direction) *color.Color {
	if dir == common.DirectionIncome {
		return incomeTag
	}
	return expenseTag
}

func displayName(cat *catalog.Catalog, id string) string {
	if c, ok := cat.Find(id); ok && c.LocalizedName != "" {
		return c.LocalizedName
	}
	return id
}

func printLine(w io.Writer, dir common.Direction, amount decimal.Decimal, categoryID, name, note string) {
	directionTag(dir).Fprintf(w, " %-7s ", dir)
	amountTag.Fprintf(w, " %10s ", amount.StringFixed(2))
	fmt.Fprintf(w, " %-14s %s", categoryID, name)
	if note != "" {
		mutedTag.Fprintf(w, "  %s", note)
	}
	fmt.Fprintln(w)
}

func printResult(w io.Writer, result common.ParseResult, cat *catalog.Catalog, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	if len(result.Transactions) == 0 {
		mutedTag.Fprintln(w, "no transactions found")
		return nil
	}
	for _, tx := range result.Transactions {
		printLine(w, tx.Direction, tx.Amount, tx.CategoryID, displayName(cat, tx.CategoryID), tx.Note)
	}
	return nil
}

func printBatch(w io.Writer, res *batch.Result, cat *catalog.Catalog, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for _, row := range res.Rows {
		switch {
		case row.Error != "":
			mutedTag.Fprintf(w, "%5d  skipped: %s\n", row.Line, row.Error)
		case len(row.Result.Transactions) == 0:
			mutedTag.Fprintf(w, "%5d  no amount: %s\n", row.Line, row.Text)
		default:
			for _, tx := range row.Result.Transactions {
				fmt.Fprintf(w, "%5d  ", row.Line)
				printLine(w, tx.Direction, tx.Amount, tx.CategoryID, displayName(cat, tx.CategoryID), tx.Note)
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d rows, %d with transactions, %d skipped, %d transactions\n",
		res.RowsTotal, res.RowsMatched, res.RowsFailed, res.Transactions)
	return err
}

func printRows(w io.Writer, rows []*repository.Transaction, cat *catalog.Catalog, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	if len(rows) == 0 {
		mutedTag.Fprintln(w, "no saved transactions")
		return nil
	}
	for _, row := range rows {
		dateTag.Fprintf(w, " %s ", row.CreatedAt.Local().Format(stamp))
		fmt.Fprint(w, " ")
		printLine(w, row.Direction, repository.FromMinor(row.AmountMinor), row.CategoryID, displayName(cat, row.CategoryID), row.Note)
	}
	return nil
}

func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	for _, dir := range []common.Direction{common.DirectionExpense, common.DirectionIncome} {
		directionTag(dir).Fprintf(w, " %s ", dir)
		fmt.Fprintln(w)
		for _, c := range cat.ByDirection(dir) {
			if _, err := fmt.Fprintf(w, "  %-14s %s\n", c.ID, c.LocalizedName); err != nil {
				return err
			}
		}
	}
	return nil
}
