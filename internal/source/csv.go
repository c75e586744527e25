package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/quantlab/factorlens/internal/contracts"
)

// CSV adapters for CLI use. Expected layouts, all with a header row:
//
//	factors.csv  date,asset,score
//	prices.csv   date,asset,price
//	groups.csv   asset,group
//
// Dates are YYYY-MM-DD. Blank score/price cells are treated as gaps and
// skipped rather than parsed as zero.

const csvDateLayout = "2006-01-02"

// LoadFactorsCSV reads factor observations from a CSV file.
func LoadFactorsCSV(path string) ([]contracts.FactorObservation, error) {
	var out []contracts.FactorObservation
	err := readCSV(path, 3, func(line int, fields []string) error {
		if fields[2] == "" {
			return nil
		}
		date, err := time.Parse(csvDateLayout, fields[0])
		if err != nil {
			return fmt.Errorf("line %d: bad date %q: %w", line, fields[0], err)
		}
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: bad score %q: %w", line, fields[2], err)
		}
		out = append(out, contracts.FactorObservation{Date: date, Asset: fields[1], Score: score})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LoadPricesCSV reads a price table from a CSV file.
func LoadPricesCSV(path string) (contracts.PriceTable, error) {
	table := contracts.NewPriceTable()
	err := readCSV(path, 3, func(line int, fields []string) error {
		if fields[2] == "" {
			return nil
		}
		date, err := time.Parse(csvDateLayout, fields[0])
		if err != nil {
			return fmt.Errorf("line %d: bad date %q: %w", line, fields[0], err)
		}
		price, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return fmt.Errorf("line %d: bad price %q: %w", line, fields[2], err)
		}
		table.Set(fields[1], date, price)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return table, nil
}

// LoadGroupsCSV reads a static asset -> group mapping from a CSV file.
func LoadGroupsCSV(path string) (contracts.StaticGroups, error) {
	groups := make(contracts.StaticGroups)
	err := readCSV(path, 2, func(line int, fields []string) error {
		if fields[0] == "" || fields[1] == "" {
			return fmt.Errorf("line %d: empty asset or group", line)
		}
		groups[fields[0]] = fields[1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// readCSV iterates data rows, skipping the header, enforcing a column count.
func readCSV(path string, columns int, fn func(line int, fields []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns

	line := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		line++
		if line == 1 {
			// header
			continue
		}
		if err := fn(line, fields); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
}
