package audit

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eightd/internal/actionstatus"
)

func TestNormalizeFillsEveryLeaf(t *testing.T) {
	ex := ExtractedReport{
		D1TeamLeader: "Li Wei",
		D25W2H:       FiveW2H{What: "crack found", Where: "  "},
		D3ICA: []ActionRecord{
			{Action: "quarantine", DueDate: "2024-06-12", Status: "completed"},
			{Owner: "QA", DueDate: "next week", Status: "WIP"},
		},
	}
	ex.Normalize()

	assert.Equal(t, "Li Wei", ex.D1TeamLeader)
	assert.Equal(t, "crack found", ex.D25W2H.What)
	for _, v := range []string{
		ex.D25W2H.When, ex.D25W2H.Where, ex.D25W2H.Who, ex.D25W2H.Why, ex.D25W2H.How, ex.D25W2H.HowMuch,
		ex.D4RootCause.OccurrenceRootCause, ex.D4RootCause.EscapeRootCause,
		ex.D6Verification, ex.D7Standardization, ex.D8Conclusion,
	} {
		assert.Equal(t, NA, v)
	}
	require.Len(t, ex.D3ICA, 2)
	assert.Equal(t, ActionRecord{Action: "quarantine", Owner: NA, DueDate: "2024-06-12", Status: actionstatus.Completed}, ex.D3ICA[0])
	assert.Equal(t, ActionRecord{Action: NA, Owner: "QA", DueDate: "next week", Status: actionstatus.Open}, ex.D3ICA[1])
	assert.NotNil(t, ex.D5Actions)
	assert.Empty(t, ex.D5Actions)
}

func TestUnmarshalToleratesLeafTypes(t *testing.T) {
	var ex ExtractedReport
	require.NoError(t, json.Unmarshal([]byte(`{
		"D1_TeamLeader": null,
		"D2_5W2H": {"What": "crack", "HowMuch": 500, "When": 1.5, "Who": true, "Why": {"a": 1}, "How": ["x"]},
		"D3_ICA": "none",
		"D4_RootCause": "fixture wear",
		"D5_Actions": [{"action": "re-weld", "owner": 7, "dueDate": "2024/06/01", "status": "completed"}],
		"D8_Conclusion": false
	}`), &ex))
	ex.Normalize()

	want := ExtractedReport{
		D1TeamLeader:      NA,
		D25W2H:            FiveW2H{What: "crack", When: "1.5", Where: NA, Who: "true", Why: NA, How: NA, HowMuch: "500"},
		D3ICA:             []ActionRecord{},
		D4RootCause:       RootCause{OccurrenceRootCause: NA, EscapeRootCause: NA},
		D5Actions:         []ActionRecord{{Action: "re-weld", Owner: "7", DueDate: "2024/06/01", Status: actionstatus.Completed}},
		D6Verification:    NA,
		D7Standardization: NA,
		D8Conclusion:      "false",
	}
	if diff := cmp.Diff(want, ex); diff != "" {
		t.Fatalf("extracted mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRoundTripsNormalizedReport(t *testing.T) {
	ex := ExtractedReport{D1TeamLeader: "Li Wei", D5Actions: []ActionRecord{{Action: "a", DueDate: "2024-07-01"}}}
	ex.Normalize()
	b, err := json.Marshal(ex)
	require.NoError(t, err)
	var back ExtractedReport
	require.NoError(t, json.Unmarshal(b, &back))
	if diff := cmp.Diff(ex, back); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestResultCommitInvalidatesTranslation(t *testing.T) {
	var r Result
	assert.False(t, r.Ready())
	assert.ErrorIs(t, r.CommitTranslation(Translation{Language: "en"}), ErrNotReady)

	r.CommitAudit(ExtractedReport{D1TeamLeader: "A"}, "eval one")
	require.True(t, r.Ready())
	require.NoError(t, r.CommitTranslation(Translation{Language: "en", Narrative: "x"}))
	_, ok := r.TranslatedFor("en")
	assert.True(t, ok)
	_, ok = r.TranslatedFor("ja")
	assert.False(t, ok)

	r.CommitAudit(ExtractedReport{D1TeamLeader: "B"}, "eval two")
	assert.Nil(t, r.Translation)
	assert.Equal(t, "B", r.Extracted.D1TeamLeader)
	assert.Equal(t, "eval two", *r.Evaluation)

	r.Reset()
	assert.False(t, r.Ready())
}

func TestDataMarkdown(t *testing.T) {
	ex := ExtractedReport{D1TeamLeader: "Li Wei", D25W2H: FiveW2H{What: "crack"}}
	ex.Normalize()
	md := DataMarkdown(ex)
	assert.Contains(t, md, "## D1/D2: Li Wei | crack")
	assert.Contains(t, md, "## D3 Interim Containment (ICA)\nN/A\n")
	assert.Contains(t, md, "## D8 Conclusion: N/A")
}
