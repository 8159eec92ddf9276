package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectCharacteristicsMergesFiles(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, FolderSubjectCharacteristics)
	writeCSV(t, folder, "Demographics.csv",
		"PATNO,EVENT_ID,SEX\n1001,BL,1\n1002,BL,2\n")
	writeCSV(t, folder, "Participant_Status.csv",
		"PATNO,EVENT_ID,STATUS\n1001,BL,Enrolled\n1003,BL,Screened\n")

	f := New(0).SubjectCharacteristics(dir)
	require.Equal(t, 3, f.NumRows())
	require.True(t, f.HasColumns(SubjectColumn, EventColumn, "SEX", "STATUS"))

	byPatno := make(map[string]int)
	for r := 0; r < f.NumRows(); r++ {
		byPatno[f.Value(r, SubjectColumn).String()] = r
	}
	assert.Equal(t, "Enrolled", f.Value(byPatno["1001"], "STATUS").String())
	assert.True(t, f.Value(byPatno["1002"], "STATUS").IsMissing())
	assert.True(t, f.Value(byPatno["1003"], "SEX").IsMissing())
}

func TestLoadJoinedCollapsesCollisions(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, FolderSubjectCharacteristics)
	writeCSV(t, folder, "Demographics.csv",
		"PATNO,EVENT_ID,COHORT\n1001,BL,1\n")
	writeCSV(t, folder, "Family_History.csv",
		"PATNO,EVENT_ID,COHORT\n1001,BL,2\n")

	f := New(0).SubjectCharacteristics(dir)
	require.Equal(t, 1, f.NumRows())
	require.True(t, f.HasColumn("COHORT"))
	assert.False(t, f.HasColumn("COHORT_x"))
	assert.False(t, f.HasColumn("COHORT_y"))
	assert.Equal(t, "1|2", f.Value(0, "COHORT").String())
}

func TestLoadJoinedSubjectOnlyFile(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, FolderSubjectCharacteristics)
	writeCSV(t, folder, "Demographics.csv",
		"PATNO,EVENT_ID,SEX\n1001,BL,1\n1001,V04,1\n")
	writeCSV(t, folder, "iu_genetic_consensus_2024.csv",
		"PATNO,GBA_STATUS\n1001,positive\n")

	f := New(0).SubjectCharacteristics(dir)
	require.Equal(t, 2, f.NumRows())
	for r := 0; r < f.NumRows(); r++ {
		assert.Equal(t, "positive", f.Value(r, "GBA_STATUS").String())
	}
}

func TestLoadJoinedAggregatesDuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, FolderSubjectCharacteristics)
	writeCSV(t, folder, "Demographics.csv",
		"PATNO,EVENT_ID,HANDED\n1001,BL,1\n1001,BL,2\n")

	f := New(0).SubjectCharacteristics(dir)
	require.Equal(t, 1, f.NumRows())
	assert.Equal(t, "1|2", f.Value(0, "HANDED").String())
}

func TestLoadJoinedMissingFolder(t *testing.T) {
	f := New(0).SubjectCharacteristics(t.TempDir())
	assert.True(t, f.Empty())
}

func TestLoadJoinedSkipsFileWithoutSubject(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, FolderSubjectCharacteristics)
	writeCSV(t, folder, "Demographics.csv",
		"PATNO,EVENT_ID,SEX\n1001,BL,1\n")
	writeCSV(t, folder, "Socio-Economics.csv",
		"SUBJECT,INCOME\n1001,3\n")

	f := New(0).SubjectCharacteristics(dir)
	require.Equal(t, 1, f.NumRows())
	assert.False(t, f.HasColumn("INCOME"))
}
