package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcesExpandsMedicalHistoryTables(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, filepath.Join(dir, FolderSubjectCharacteristics), "Demographics.csv",
		"PATNO,EVENT_ID,SEX\n1001,BL,1\n")
	writeCSV(t, filepath.Join(dir, FolderMedicalHistory), "Vital_Signs.csv",
		"PATNO,EVENT_ID,SYSSUP\n1001,BL,120\n")
	writeCSV(t, filepath.Join(dir, FolderMedicalHistory), "Adverse_Event.csv",
		"PATNO,EVENT_ID,AETERM\n1001,BL,headache\n")

	sources := New(0).Sources(dir,
		[]string{ModalitySubjectCharacteristics, ModalityMedicalHistory}, nil)
	require.Len(t, sources, 3)
	assert.Equal(t, ModalitySubjectCharacteristics, sources[0].Name)
	assert.Equal(t, "Adverse_Event", sources[1].Name)
	assert.Equal(t, "Vital_Signs", sources[2].Name)
}

func TestSourcesUnknownModality(t *testing.T) {
	sources := New(0).Sources(t.TempDir(), []string{"genomics"}, nil)
	assert.Empty(t, sources)
}

func TestSourcesPlaceholderModalitiesLoadEmpty(t *testing.T) {
	sources := New(0).Sources(t.TempDir(), []string{ModalityImaging, ModalityWearables}, nil)
	require.Len(t, sources, 2)
	for _, s := range sources {
		assert.True(t, s.Frame.Empty(), s.Name)
	}
}
