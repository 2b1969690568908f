package automatic

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/stat"
)

const histogramBins = 15

// AnalyzeLogFile reads a batch log written by RunBatch and spits out a
// bunch of statistics.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return AnalyzeLog(file)
}

// AnalyzeLog is AnalyzeLogFile over any reader.
func AnalyzeLog(in io.Reader) (string, error) {
	r := csv.NewReader(in)

	// Record looks like:
	// seed,outcome,won,iterations,maxdepth,visited,plays,elapsedms
	var (
		dealsPlayed int
		wins        int
		outcomes    = map[string]int{}
		wonIters    []float64
		allIters    []float64
		solutions   []float64
		elapsedMS   []float64
	)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "seed" {
			continue
		}
		if len(record) < 8 {
			return "", fmt.Errorf("short record %v", record)
		}
		iters, err := strconv.Atoi(record[3])
		if err != nil {
			return "", err
		}
		plays, err := strconv.Atoi(record[6])
		if err != nil {
			return "", err
		}
		ms, err := strconv.Atoi(record[7])
		if err != nil {
			return "", err
		}
		dealsPlayed++
		outcomes[record[1]]++
		allIters = append(allIters, float64(iters))
		elapsedMS = append(elapsedMS, float64(ms))
		if record[2] == "1" {
			wins++
			wonIters = append(wonIters, float64(iters))
			solutions = append(solutions, float64(plays))
		}
	}
	if dealsPlayed == 0 {
		return "No deals in log.\n", nil
	}

	var ss strings.Builder
	fmt.Fprintf(&ss, "Deals solved: %d\n", dealsPlayed)
	fmt.Fprintf(&ss, "Wins: %d (%.3f%%)\n", wins, 100.0*float64(wins)/float64(dealsPlayed))
	keys := make([]string, 0, len(outcomes))
	for k := range outcomes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&ss, "  %-12s %d\n", k, outcomes[k])
	}
	ss.WriteString(summarize("Iterations (all deals)", allIters))
	ss.WriteString(summarize("Elapsed ms", elapsedMS))
	if wins > 0 {
		ss.WriteString(summarize("Iterations (won deals)", wonIters))
		ss.WriteString(summarize("Solution length", solutions))
		ss.WriteString("\nIterations to win:\n")
		if err := histogram.Fprint(&ss, histogram.Hist(histogramBins, wonIters), histogram.Linear(40)); err != nil {
			return "", err
		}
	}
	return ss.String(), nil
}

func summarize(label string, xs []float64) string {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mean, stdev := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		stdev = 0
	}
	return fmt.Sprintf("%s: mean %.2f  stdev %.2f  median %.0f  p90 %.0f  max %.0f\n",
		label, mean, stdev,
		stat.Quantile(0.5, stat.Empirical, sorted, nil),
		stat.Quantile(0.9, stat.Empirical, sorted, nil),
		sorted[len(sorted)-1])
}
