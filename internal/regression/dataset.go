package regression

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// datasetColumns are the headers of the startup profit dataset
var datasetColumns = []string{"R&D Spend", "Administration", "Marketing Spend", "State", "Profit"}

// LoadCSV reads training samples from a CSV with the columns
// R&D Spend, Administration, Marketing Spend, State, Profit (any order).
func LoadCSV(r io.Reader) ([]Sample, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range datasetColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var samples []Sample
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		nums := make([]float64, 0, 4)
		for _, col := range []string{"R&D Spend", "Administration", "Marketing Spend", "Profit"} {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[index[col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, col, err)
			}
			nums = append(nums, v)
		}

		samples = append(samples, Sample{
			Features: Features(nums[0], nums[1], nums[2], record[index["State"]]),
			Target:   nums[3],
		})
	}

	return samples, nil
}

// LoadCSVFile reads training samples from a file
func LoadCSVFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}
