package excel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"policysim/domain/anchor"
	"policysim/domain/core"
	"policysim/domain/verdict"
)

func TestWriteVerdictWorkbook(t *testing.T) {
	suite := anchor.Aggregate([]anchor.Result{
		{TestID: "AT-1", Name: "first", Category: anchor.CategoryCausal, Passed: true, Reason: "ok"},
		{TestID: "AT-2", Name: "second", Category: anchor.CategoryCausal, Passed: false, Reason: "too low"},
	})
	v := verdict.Verdict{
		ModelID:    "model-x",
		ModelName:  "Model X",
		RunID:      core.NewRunID(),
		Eligible:   false,
		Suite:      &suite,
		Complexity: 1.25,
		Summary:    "not eligible",
		CreatedAt:  core.NewTimestamp(time.Now()),
	}

	dir := t.TempDir()
	path, err := NewReportWriter(dir).Write(v)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Verdict", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Model X", name)

	testID, err := f.GetCellValue("Anchor Tests", "A2")
	require.NoError(t, err)
	assert.Equal(t, "AT-1", testID)

	reason, err := f.GetCellValue("Anchor Tests", "E3")
	require.NoError(t, err)
	assert.Equal(t, "too low", reason)
}

func TestWriteTier1Rejection(t *testing.T) {
	v := verdict.Verdict{
		ModelID:   "model-y",
		ModelName: "Model Y",
		RunID:     core.NewRunID(),
		Tier1Failures: []verdict.Tier1Failure{
			{TestID: "T1-PARAM-RANGE", Reason: "tax_rate out of range"},
		},
		Summary:   "rejected",
		CreatedAt: core.Now(),
	}

	path, err := NewReportWriter(t.TempDir()).Write(v)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// No battery sheet for a tier-1 rejection.
	assert.NotContains(t, f.GetSheetList(), "Anchor Tests")

	finding, err := f.GetCellValue("Verdict", "B10")
	require.NoError(t, err)
	assert.Equal(t, "tax_rate out of range", finding)
}
