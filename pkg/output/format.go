// Package output provides utilities for formatting and exporting quotations.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/design-loan-quote/internal/quote"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/iwvelando/design-loan-quote/pkg/format"
	"github.com/iwvelando/design-loan-quote/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Options tunes the human-readable output.
type Options struct {
	CurrencySymbol string
}

// Write renders quotations in the named format.
func Write(w io.Writer, outputFormat string, opts Options, quotations ...quote.Quotation) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, opts, quotations...)
	case constants.OutputFormatCSV:
		return CsvFormat(w, quotations...)
	case constants.OutputFormatJSON:
		return JSONFormat(w, quotations...)
	default:
		return YAMLFormat(w, quotations...)
	}
}

// ContentType returns the MIME type and file extension of a format.
func ContentType(outputFormat string) (string, string) {
	switch outputFormat {
	case constants.OutputFormatCSV:
		return "text/csv; charset=utf-8", "csv"
	case constants.OutputFormatJSON:
		return "application/json", "json"
	case constants.OutputFormatYAML:
		return "application/yaml", "yaml"
	}
	return "text/plain; charset=utf-8", "txt"
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, opts Options, quotations ...quote.Quotation) error {
	symbol := opts.CurrencySymbol
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	p := message.NewPrinter(language.English)
	ew := &errWriter{w: w}

	for i, q := range quotations {
		name := q.Design.Name
		if name == "" {
			name = "custom terms"
		}
		ew.printf("--- Quotation for design %s ---\n", name)
		if q.CustomerName != "" {
			ew.printf("Customer        : %s\n", q.CustomerName)
		}
		ew.printf("Price           : %s\n", format.Currency(q.Terms.Principal, symbol))
		if !q.LoanAvailable {
			ew.printf("No loan offered for this design.\n")
		} else {
			ew.printf("Term            : %s\n", q.TermDisplay)
			ew.printf("Interest rate   : %s\n", q.RateDisplay)
			ew.printf("Monthly payment : %s\n", format.Currency(q.Summary.MonthlyPayment, symbol))
			ew.printf("Total interest  : %s\n", format.Currency(q.Summary.TotalInterest, symbol))
			ew.printf("Total paid      : %s\n", format.Currency(q.Summary.TotalAmountPaid, symbol))
			ew.printf("\n")
			ew.printf("Month | Due     | Payment | Principal | Interest | Balance\n")
			ew.printf("_____ | _______ | _______ | _________ | ________ | _______\n")
			for j, row := range q.Schedule {
				due := q.DueDate(j)
				if due == "" {
					due = "-"
				}
				ew.printf("%s", p.Sprintf("%5s | %-7s | %s | %s | %s | %s\n",
					strconv.Itoa(row.Month), due,
					format.Currency(row.Payment, symbol),
					format.Currency(row.PrincipalPortion, symbol),
					format.Currency(row.InterestPortion, symbol),
					format.Currency(row.RemainingBalance, symbol)))
			}
			if len(q.Schedule) < q.TotalRows {
				ew.printf("... %d of %d months shown\n", len(q.Schedule), q.TotalRows)
			}
		}
		if i < len(quotations)-1 {
			ew.printf("\n")
		}
	}
	return ew.err
}

// CsvFormat outputs the schedules of every quotation followed by their summaries.
func CsvFormat(w io.Writer, quotations ...quote.Quotation) error {
	cw := csv.NewWriter(w)

	records := [][]string{{"design", "month", "due date", "payment", "principal", "interest", "balance"}}
	for _, q := range quotations {
		for j, row := range q.Schedule {
			records = append(records, []string{
				q.Design.Name,
				strconv.Itoa(row.Month),
				q.DueDate(j),
				format.Fixed(row.Payment),
				format.Fixed(row.PrincipalPortion),
				format.Fixed(row.InterestPortion),
				format.Fixed(row.RemainingBalance),
			})
		}
	}

	records = append(records, []string{})
	records = append(records, []string{"design", "term", "rate", "monthly payment", "total interest", "total paid", "loan amount"})
	for _, q := range quotations {
		records = append(records, []string{
			q.Design.Name,
			q.TermDisplay,
			q.RateDisplay,
			format.Fixed(q.Summary.MonthlyPayment),
			format.Fixed(q.Summary.TotalInterest),
			format.Fixed(q.Summary.TotalAmountPaid),
			format.Fixed(q.Summary.LoanAmount),
		})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvString returns the CSV rendering of quotations.
func CsvString(quotations ...quote.Quotation) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, quotations...); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat outputs indented JSON: an object for one quotation, an array otherwise.
func JSONFormat(w io.Writer, quotations ...quote.Quotation) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(quotations) == 1 {
		return enc.Encode(quotations[0])
	}
	if quotations == nil {
		quotations = []quote.Quotation{}
	}
	return enc.Encode(quotations)
}

// YAMLFormat outputs YAML: a mapping for one quotation, a sequence otherwise.
func YAMLFormat(w io.Writer, quotations ...quote.Quotation) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	var err error
	if len(quotations) == 1 {
		err = enc.Encode(quotations[0])
	} else {
		if quotations == nil {
			quotations = []quote.Quotation{}
		}
		err = enc.Encode(quotations)
	}
	if err != nil {
		return fmt.Errorf("failed to write yaml: %w", err)
	}
	return enc.Close()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
