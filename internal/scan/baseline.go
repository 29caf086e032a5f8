package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/aggregator"
	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// DefaultBaseline returns the audit history shown before any ad-hoc scan.
func DefaultBaseline() []models.ScanReport {
	const nodeRule = "Node.js GenAI/MCP Library"
	const nodeDesc = "Identified usage of unapproved GenAI or MCP library in Node.js ecosystem"

	return []models.ScanReport{
		models.NewScanReport("SAGA/meu-repo-node", []models.Violation{
			{
				RuleName:     nodeRule,
				Category:     models.CategoryLibrary,
				Severity:     models.SeverityCritical,
				Description:  nodeDesc,
				MatchPreview: `"mcp-framework": "^1.0.0",`,
				LineNumber:   12,
			},
			{
				RuleName:     nodeRule,
				Category:     models.CategoryLibrary,
				Severity:     models.SeverityCritical,
				Description:  nodeDesc,
				MatchPreview: `"@modelcontextprotocol/sdk": "*"`,
				LineNumber:   14,
			},
		}),
		models.NewScanReport("SAGA/payment-gateway-api", nil),
		models.NewScanReport("SAGA/backoffice-python-app", []models.Violation{
			{
				RuleName:     "Agent/LLM Code Pattern",
				Category:     models.CategoryCodePattern,
				Severity:     models.SeverityHigh,
				Description:  "Code instantiating GenAI models or Agent structures",
				MatchPreview: "agent = AgentExecutor(tools=tools, llm=llm)",
				LineNumber:   45,
			},
		}),
	}
}

// LoadBaseline reads a report set from a YAML or JSON file and normalizes it.
// The file holds a list of reports in the scanner's wire format.
func LoadBaseline(path string) ([]models.ScanReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}

	var raw []models.ScanReport
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	default:
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}

	reports, err := aggregator.NewNormalizer().NormalizeSet(raw)
	if err != nil {
		return nil, fmt.Errorf("baseline %s: %w", path, err)
	}
	return reports, nil
}
