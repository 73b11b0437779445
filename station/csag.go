// Package station reads the station time-series text formats used alongside
// the gridded products: CSAG rainfall station files and DWAF real-time
// hydrology records.
package station

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "20060102"

// A Header holds the metadata block of a CSAG station file.
type Header struct {
	ID        string
	Country   string
	Name      string
	Variable  string
	Format    string
	Latitude  float64
	Longitude float64
	Altitude  float64
	Cleaning  int
	Created   time.Time
	StartDate time.Time
	EndDate   time.Time
}

// A Series is one station's observations in file order.
type Series struct {
	Header Header
	Dates  []time.Time
	Values []float64
}

// ReadCSAG reads a CSAG station file: a block of KEY value metadata lines
// (lines starting with '#' are comments), then a comma-separated table whose
// names row starts with ID and which carries the observations in its DATE
// and VAR columns.
func ReadCSAG(r io.Reader) (*Series, error) {
	scanner := bufio.NewScanner(r)

	series := &Series{}
	var table strings.Builder
	inTable := false
	for scanner.Scan() {
		line := scanner.Text()
		if inTable {
			table.WriteString(line)
			table.WriteByte('\n')
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		case strings.HasPrefix(trimmed, "ID") && strings.Contains(trimmed, ","):
			inTable = true
			table.WriteString(line)
			table.WriteByte('\n')
		default:
			if err := parseHeaderLine(trimmed, &series.Header); err != nil {
				return nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !inTable {
		return nil, fmt.Errorf("station: no data table found")
	}

	if err := parseTable(table.String(), series); err != nil {
		return nil, err
	}
	return series, nil
}

// parseHeaderLine stores a KEY value metadata line. In the manner of the
// upstream files, the key is the first field and the value the last.
func parseHeaderLine(line string, hdr *Header) error {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil
	}
	key, value := fields[0], fields[len(fields)-1]

	var err error
	switch key {
	case "ID":
		hdr.ID = value
	case "COUNTRY":
		hdr.Country = value
	case "NAME":
		hdr.Name = value
	case "VARIABLE":
		hdr.Variable = value
	case "FORMAT":
		hdr.Format = value
	case "LATITUDE":
		hdr.Latitude, err = strconv.ParseFloat(value, 64)
	case "LONGITUDE":
		hdr.Longitude, err = strconv.ParseFloat(value, 64)
	case "ALTITUDE":
		hdr.Altitude, err = strconv.ParseFloat(value, 64)
	case "CLEANING":
		hdr.Cleaning, err = strconv.Atoi(value)
	case "CREATED":
		hdr.Created, err = time.Parse(dateLayout, value)
	case "START_DATE":
		hdr.StartDate, err = time.Parse(dateLayout, value)
	case "END_DATE":
		hdr.EndDate, err = time.Parse(dateLayout, value)
	}
	if err != nil {
		return fmt.Errorf("station: parse header %s: %w", key, err)
	}
	return nil
}

func parseTable(table string, series *Series) error {
	cr := csv.NewReader(strings.NewReader(table))
	cr.TrimLeadingSpace = true

	names, err := cr.Read()
	if err != nil {
		return fmt.Errorf("station: read table names: %w", err)
	}
	dateCol, varCol := -1, -1
	for i, name := range names {
		switch strings.TrimSpace(name) {
		case "DATE":
			dateCol = i
		case "VAR":
			varCol = i
		}
	}
	if dateCol < 0 || varCol < 0 {
		return fmt.Errorf("station: table has no DATE and VAR columns: %v", names)
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		date, err := time.Parse(dateLayout, strings.TrimSpace(record[dateCol]))
		if err != nil {
			return fmt.Errorf("station: parse date: %w", err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[varCol]), 64)
		if err != nil {
			return fmt.Errorf("station: parse value: %w", err)
		}
		series.Dates = append(series.Dates, date)
		series.Values = append(series.Values, value)
	}
}
