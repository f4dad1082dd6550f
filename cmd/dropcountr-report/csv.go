package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// formatFloat renders an optional float with fixed precision, NaN when the
// series had no value for the bucket.
func formatFloat(val *float64, precision int) string {
	if val != nil {
		return strconv.FormatFloat(*val, 'f', precision, 64)
	}
	return "NaN"
}

// formatBool renders an optional bool, empty when absent.
func formatBool(val *bool) string {
	if val != nil {
		return strconv.FormatBool(*val)
	}
	return ""
}

// writeCSV writes one row per period bucket per meter.
func writeCSV(filename string, data []*ReportRow) error {
	if len(data) == 0 {
		return fmt.Errorf("no data to write CSV")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"During",
		"Premise",
		"Meter_ID",
		"Total_Gallons",
		"Is_Leaking",
		"Price",
		"Price_Currency",
		"Goal_Gallons",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range data {
		record := []string{
			row.During,
			row.Premise,
			row.MeterID,
			formatFloat(row.TotalGallons, 2),
			formatBool(row.IsLeaking),
			formatFloat(row.Price, 2),
			row.PriceCurrency,
			formatFloat(row.GoalGallons, 2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
