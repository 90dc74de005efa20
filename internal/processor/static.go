package processor

import (
	"context"

	"nextgen-api/internal/models"
)

// Static returns canned extraction data. It stands in for a real provider
// during development and in tests, and is selected when no provider is
// configured.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Process(_ context.Context, req *models.TaskRequest) (*models.FiveWs, error) {
	result := &models.FiveWs{
		Who:   []string{"patient"},
		What:  []string{"documented condition"},
		When:  []string{"at time of encounter"},
		Where: []string{"point of care"},
		Why:   []string{"clinical assessment"},
	}
	if req.Indicators.Reasoning {
		result.Supplemental = map[string]interface{}{
			"reasoning": "static processor returns fixed sample output",
		}
	}
	return result, nil
}
