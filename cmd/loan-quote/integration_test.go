package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/iwvelando/design-loan-quote/internal/config"
	"gopkg.in/yaml.v3"
)

const exampleConfig = "../../config.yaml.example"

func quietLogs(t *testing.T) {
	t.Helper()
	previous := logLevel
	logLevel = "error"
	t.Cleanup(func() { logLevel = previous })
}

func TestExampleConfigurationIsValid(t *testing.T) {
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	warnings, err := conf.ValidateConfiguration()
	if err != nil {
		t.Fatalf("example configuration is invalid: %v", err)
	}
	// the warehouse is offered interest free
	if len(warnings) != 1 {
		t.Errorf("expected one warning, got %v", warnings)
	}
}

func TestExampleConfigurationEveryFormat(t *testing.T) {
	quietLogs(t)

	for _, format := range []string{"pretty", "csv", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			err := runSchedule(context.Background(), &buf, scheduleOptions{
				configPath:   exampleConfig,
				outputFormat: format,
				start:        "2026-11",
			})
			if err != nil {
				t.Fatalf("runSchedule(%s) failed: %v", format, err)
			}
			if !strings.Contains(buf.String(), "Warehouse shell") {
				t.Errorf("expected every design in %s output", format)
			}
		})
	}
}

func TestExampleConfigurationCSVTotals(t *testing.T) {
	quietLogs(t)

	var buf bytes.Buffer
	if err := runSchedule(context.Background(), &buf, scheduleOptions{configPath: exampleConfig, outputFormat: "csv"}); err != nil {
		t.Fatalf("runSchedule failed: %v", err)
	}

	reader := csv.NewReader(&buf)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}

	summaries := map[string][]string{}
	inSummary := false
	for _, record := range records {
		if record[0] == "design" {
			inSummary = record[1] == "term"
			continue
		}
		if inSummary {
			summaries[record[0]] = record
		}
	}

	tests := []struct {
		design        string
		payment       string
		totalInterest string
	}{
		{"Two-storey residential", "106618.55", "79422.56"},
		{"Bungalow", "22160.31", "31847.32"},
		{"Warehouse shell", "58333.33", "0.00"},
	}
	for _, tt := range tests {
		summary, ok := summaries[tt.design]
		if !ok {
			t.Errorf("missing summary for %s", tt.design)
			continue
		}
		if summary[3] != tt.payment || summary[4] != tt.totalInterest {
			t.Errorf("%s: got payment %s and interest %s, want %s and %s",
				tt.design, summary[3], summary[4], tt.payment, tt.totalInterest)
		}
	}
}

func TestExampleConfigurationYAMLDocument(t *testing.T) {
	quietLogs(t)

	var buf bytes.Buffer
	if err := runSchedule(context.Background(), &buf, scheduleOptions{configPath: exampleConfig, outputFormat: "yaml", preview: true}); err != nil {
		t.Fatalf("runSchedule failed: %v", err)
	}

	var documents []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &documents); err != nil {
		t.Fatalf("failed to decode yaml: %v", err)
	}
	if len(documents) != 3 {
		t.Fatalf("expected 3 quotations, got %d", len(documents))
	}
	for _, doc := range documents {
		schedule, _ := doc["schedule"].([]interface{})
		if len(schedule) > 12 {
			t.Errorf("preview should be capped at 12 rows, got %d", len(schedule))
		}
	}
}
