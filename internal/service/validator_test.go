package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractQuestionGroupsFromNoisyText(t *testing.T) {
	raw := "Sure! Here are your questions:\n```json\n" +
		`{"questions":[{"questions":[{"question":"What is paging?","options":["a","b","c","d"],"correct_answer_index":2}]}]}` +
		"\n```\nLet me know if you need more."

	groups, err := ExtractQuestionGroups(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Questions, 1)
	assert.Equal(t, "What is paging?", groups[0].Questions[0].Question)
	assert.Equal(t, 2, groups[0].Questions[0].CorrectAnswerIndex)
}

func TestExtractQuestionGroupsCaseStudy(t *testing.T) {
	raw := `{"questions":[{"case_study":"A clinic migrates to the cloud.","questions":[{"question":"What fails first?","options":["w","x","y","z"],"correct_answer_index":0}]}]}`

	groups, err := ExtractQuestionGroups(raw)
	require.NoError(t, err)
	assert.Equal(t, "A clinic migrates to the cloud.", groups[0].CaseStudy)
}

func TestExtractQuestionGroupsNoBraces(t *testing.T) {
	_, err := ExtractQuestionGroups("I could not generate any questions, sorry.")
	assert.ErrorIs(t, err, errNoPayload)
}

func TestExtractQuestionGroupsMalformedJSON(t *testing.T) {
	_, err := ExtractQuestionGroups(`{"questions": [not valid`)
	assert.ErrorIs(t, err, errNoPayload)
}

func TestExtractQuestionGroupsTruncatedJSON(t *testing.T) {
	_, err := ExtractQuestionGroups(`{"questions":[{"questions":[{"question":"incomplete"}`)
	assert.Error(t, err)
}

func TestExtractQuestionGroupsEmptyGroupList(t *testing.T) {
	_, err := ExtractQuestionGroups(`{"questions":[]}`)
	assert.ErrorIs(t, err, errEmptyGroups)
}

func TestExtractQuestionGroupsPlaceholderFirstQuestion(t *testing.T) {
	_, err := ExtractQuestionGroups(`{"questions":[{"questions":[{"question":"   ","options":[],"correct_answer_index":0}]}]}`)
	assert.ErrorIs(t, err, errPlaceholderContent)

	_, err = ExtractQuestionGroups(`{"questions":[{"questions":[]}]}`)
	assert.ErrorIs(t, err, errPlaceholderContent)
}
