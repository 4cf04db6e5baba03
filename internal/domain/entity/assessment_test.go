package entity

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQualityAssessment_JSONRoundTrip(t *testing.T) {
	orig := QualityAssessment{
		QualityScore: 65.5,
		Grade:        GradeC,
		Defects: []Defect{
			{Type: DefectBrownSpots, Severity: 0.8, Confidence: 0.8},
			{Type: DefectDiscoloration, Severity: 0.6, Confidence: 0.7, Location: &BoundingBox{X: 1, Y: 2, Width: 3, Height: 4}},
		},
		Recommendations:           []string{"a", "b"},
		PriceAdjustmentPercentage: -30,
		ConfidenceScore:           84.2,
		ProcessingTimeSeconds:     0.125,
		ModelVersion:              "1.0.0",
		TimestampUTC:              "2026-10-16T09:30:00.123456Z",
	}

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var decoded QualityAssessment
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, orig, decoded)
}

func TestQualityAssessment_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(QualityAssessment{Grade: GradeA, Defects: []Defect{}, Recommendations: []string{}})
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, name := range []string{
		"quality_score", "grade", "defects", "recommendations", "price_adjustment_percentage",
		"confidence_score", "processing_time", "model_version", "timestamp",
	} {
		require.Contains(t, fields, name)
	}
}

func TestProductInfo_Normalized(t *testing.T) {
	p := ProductInfo{Type: "tomato"}.Normalized()
	require.Equal(t, "tomato", p.Type)
	require.Equal(t, UnknownProduct, p.Category)
}

func TestBatchResult_SplitsSuccessAndFailure(t *testing.T) {
	ok := &QualityAssessment{Grade: GradeB}
	b := &BatchResult{Items: []ImageResult{
		{Index: 0, Filename: "a.jpg", Assessment: ok},
		{Index: 1, Filename: "b.png", Err: ErrInvalidImage},
		{Index: 2, Filename: "c.jpg", Assessment: ok},
	}}

	require.Len(t, b.Assessments(), 2)
	failed := b.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, "b.png", failed[0].Filename)
	require.True(t, errors.Is(failed[0].Err, ErrInvalidImage))
}
