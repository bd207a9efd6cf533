package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arloliu/datauri"
	"sigs.k8s.io/yaml"
)

// record is one encoded path in json and yaml output.
type record struct {
	Input    string `json:"input"`
	Path     string `json:"path"`
	Source   string `json:"source,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Size     int    `json:"size,omitempty"`
	URI      string `json:"uri"`
}

func newRecord(input string, res *datauri.Result) record {
	return record{
		Input:    input,
		Path:     res.Path,
		Source:   res.Source.String(),
		MIMEType: res.MIMEType,
		Size:     len(res.Data),
		URI:      res.String(),
	}
}

// writeRecords prints records in the requested format.
// The uri format prints one data URI per line.
func writeRecords(w io.Writer, format string, records []record) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case "yaml":
		out, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		for _, r := range records {
			if _, err := fmt.Fprintln(w, r.URI); err != nil {
				return err
			}
		}
		return nil
	}
}
