package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// PrintText writes a human-readable summary of the report.
func PrintText(w io.Writer, r *Report) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Markup Batch Report")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Input:       %s\n", r.Config.Input)
	fmt.Fprintf(w, "Concurrency: %d\n", r.Config.Concurrency)
	fmt.Fprintf(w, "Run at:      %s\n\n", r.Config.Timestamp)

	fmt.Fprintf(w, "Total:     %d\n", r.Summary.Total)
	fmt.Fprintf(w, "Succeeded: %d\n", r.Summary.Succeeded)
	fmt.Fprintf(w, "Failed:    %d\n", r.Summary.Failed)
	fmt.Fprintf(w, "Avg time:  %s\n", r.Summary.AverageDuration)

	fmt.Fprintln(w, "\nResults:")
	for i, res := range r.Results {
		if res.Error != "" {
			fmt.Fprintf(w, "[%d] %s  error: %s\n", i+1, res.ID, res.Error)
			continue
		}
		_, err := fmt.Fprintf(w, "[%d] %s  %s/%s  t=%.2f  %dx%d  %d bytes  %s\n",
			i+1, res.ID, res.Provider, res.Model, res.Temperature, res.Width, res.Height, len(res.UICode), res.Duration)
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintCSV writes one row per result, without the generated markup.
func PrintCSV(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "provider", "model", "temperature", "width", "height", "bytes", "duration_ms", "error"}); err != nil {
		return err
	}
	for _, res := range r.Results {
		row := []string{
			res.ID,
			res.Provider,
			res.Model,
			strconv.FormatFloat(res.Temperature, 'f', 2, 64),
			strconv.Itoa(res.Width),
			strconv.Itoa(res.Height),
			strconv.Itoa(len(res.UICode)),
			strconv.FormatInt(res.Duration.Milliseconds(), 10),
			res.Error,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
