package station

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// An Observation is one DWAF real-time record.
type Observation struct {
	Time      time.Time
	Level     float64
	Discharge float64
}

// ReadDWAF parses a saved DWAF real-time data response. Records are
// separated by <br> markers; lines starting with '<', 'C' or '*' are markup
// and comment noise. Each record carries a date, a time of day, a stage
// level and a discharge.
func ReadDWAF(r io.Reader) ([]Observation, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var observations []Observation
	for _, element := range strings.Split(string(raw), "<br>") {
		element = strings.TrimSpace(element)
		if element == "" || element[0] == '<' || element[0] == 'C' || element[0] == '*' {
			continue
		}
		fields := strings.Fields(element)
		if len(fields) < 4 {
			return nil, fmt.Errorf("station: short DWAF record %q", element)
		}
		obsTime, err := time.Parse("2006-01-02 15:04", fields[0]+" "+fields[1])
		if err != nil {
			return nil, fmt.Errorf("station: parse DWAF record time: %w", err)
		}
		level, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("station: parse DWAF level: %w", err)
		}
		discharge, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("station: parse DWAF discharge: %w", err)
		}
		observations = append(observations, Observation{
			Time:      obsTime,
			Level:     level,
			Discharge: discharge,
		})
	}
	return observations, nil
}
