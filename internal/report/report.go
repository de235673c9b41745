package report

import (
	"encoding/json"
	"os"
	"sort"

	"example.com/disgate/internal/capture"
	"example.com/disgate/internal/common"
	"example.com/disgate/internal/lint"
)

// CaptureSummary describes the capture a report was produced for.
type CaptureSummary struct {
	File    string         `json:"file"`
	SHA256  string         `json:"sha256"`
	Size    int64          `json:"size"`
	PDUs    int            `json:"pdus"`
	Resyncs int            `json:"resyncs"`
	Types   map[string]int `json:"types"`
}

// TypeCount is one histogram bar.
type TypeCount struct {
	Type  string
	Count int
}

// Histogram returns the PDU type counts, most frequent first.
func (s CaptureSummary) Histogram() []TypeCount {
	out := make([]TypeCount, 0, len(s.Types))
	for t, n := range s.Types {
		out = append(out, TypeCount{Type: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// SummarizeCapture hashes and indexes the capture at path.
func SummarizeCapture(path string) (CaptureSummary, error) {
	sum, size, err := common.Sha256OfFile(path)
	if err != nil {
		return CaptureSummary{}, err
	}
	idx, err := capture.ScanFile(path)
	if err != nil {
		return CaptureSummary{}, err
	}
	types := make(map[string]int)
	for t, n := range idx.Counts() {
		types[t.String()] = n
	}
	return CaptureSummary{
		File:    path,
		SHA256:  sum,
		Size:    size,
		PDUs:    len(idx.PDUs),
		Resyncs: idx.Resyncs,
		Types:   types,
	}, nil
}

func SaveAcceptanceJSON(rep lint.AcceptanceReport, out string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadAcceptanceJSON(path string) (lint.AcceptanceReport, error) {
	var rep lint.AcceptanceReport
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	err = json.Unmarshal(b, &rep)
	return rep, err
}
