package loader

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/cohort-cli/internal/consolidate"
	"github.com/sells-group/cohort-cli/internal/frame"
)

// Biospecimen project names accepted by the exclusion flag.
const (
	Project151          = "project_151_pQTL_CSF"
	Project151Corrected = "project_151_pQTL_CSF_batch_corrected"
	MetabolomicLRRK2    = "metabolomic_lrrk2"
	MetabolomicLRRK2CSF = "metabolomic_lrrk2_csf"
	UrineProteomics     = "urine_proteomics"
	Project9000         = "project_9000"
	Project222          = "project_222"
	Project196          = "project_196"
	Project177          = "project_177"
	Project214          = "project_214"
	CurrentBiospecimen  = "current_biospecimen"
	BloodChemistry      = "blood_chemistry_hematology"
	StandardFiles       = "standard_files"
)

// standardFilePrefixes lists the biospecimen tables that need no
// project-specific reshaping.
var standardFilePrefixes = []string{
	"Clinical_Labs",
	"Genetic_Testing_Results",
	"Skin_Biopsy",
	"Research_Biospecimens",
	"Lumbar_Puncture",
	"Laboratory_Procedures_with_Elapsed_Times",
}

// Biospecimen loads every biospecimen project as its own named source,
// in a fixed order, skipping the ones named in exclude. Each project's
// frame has one row per subject and visit.
func (l *Loader) Biospecimen(dataPath string, exclude []string) []consolidate.Source {
	folder := filepath.Join(dataPath, FolderBiospecimen)
	if _, err := os.Stat(folder); err != nil {
		zap.L().Warn("modality folder not found",
			zap.String("folder", folder), zap.String("modality", ModalityBiospecimen))
		return nil
	}
	if len(exclude) > 0 {
		zap.L().Info("excluding biospecimen projects", zap.Strings("exclude", exclude))
	}

	files := dataFiles(folder)
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var sources []consolidate.Source
	add := func(name string, load func() *frame.Frame) {
		if skip[name] {
			zap.L().Info("skipping excluded project", zap.String("project", name))
			return
		}
		f := load()
		zap.L().Info("loaded biospecimen project",
			zap.String("project", name), zap.Int("rows", f.NumRows()))
		sources = append(sources, consolidate.Source{Name: name, Frame: f})
	}

	add(Project151, func() *frame.Frame { return project151(files, false) })
	add(Project151Corrected, func() *frame.Frame { return project151(files, true) })
	add(MetabolomicLRRK2, func() *frame.Frame { return metabolomicLRRK2(files, false) })
	add(MetabolomicLRRK2CSF, func() *frame.Frame { return metabolomicLRRK2CSF(files) })
	add(UrineProteomics, func() *frame.Frame {
		return pivotTests(readMatching(files, func(base string) bool {
			return strings.HasPrefix(base, "Targeted___untargeted_MS-based_proteomics_of_urine_in_PD")
		}), "URINE_", UrineProteomics)
	})
	add(Project9000, func() *frame.Frame { return proteomicProject(files, "PPMI_Project_9000", "9000") })
	add(Project222, func() *frame.Frame { return proteomicProject(files, "PPMI_Project_222", "222") })
	add(Project196, func() *frame.Frame { return project196(files) })
	add(Project177, func() *frame.Frame {
		return pivotTests(readMatching(files, func(base string) bool {
			return strings.HasPrefix(base, "PPMI_Project_177")
		}), "177_", Project177)
	})
	add(Project214, func() *frame.Frame { return project214(files) })
	add(CurrentBiospecimen, func() *frame.Frame {
		return pivotTests(readMatching(files, func(base string) bool {
			return strings.HasPrefix(base, "Current_Biospecimen_Analysis_Results")
		}), "BIO_", CurrentBiospecimen)
	})
	add(BloodChemistry, func() *frame.Frame { return bloodChemistry(files) })
	add(StandardFiles, func() *frame.Frame { return joinStandardFiles(files, standardFilePrefixes) })

	return sources
}

// project151 loads the CSF pQTL panel. The export carries both raw and
// batch corrected files for the same tests, so each variant is kept as
// its own source.
func project151(files []string, batchCorrected bool) *frame.Frame {
	frames := readMatching(files, func(base string) bool {
		return strings.HasPrefix(base, "Project_151_pQTL_in_CSF") &&
			strings.Contains(base, "Batch_Corrected") == batchCorrected
	})
	name := Project151
	if batchCorrected {
		name = Project151Corrected
	}
	return pivotTests(frames, "151_", name)
}

func metabolomicLRRK2(files []string, includeCSF bool) *frame.Frame {
	frames := readMatching(files, func(base string) bool {
		if !strings.HasPrefix(base, "Metabolomic_Analysis_of_LRRK2") {
			return false
		}
		return includeCSF || !strings.Contains(base, "_CSF")
	})
	return pivotTests(frames, "LRRK2_", MetabolomicLRRK2)
}

// metabolomicLRRK2CSF loads the LRRK2 panel including CSF files and
// then narrows it to the CSF test columns.
func metabolomicLRRK2CSF(files []string) *frame.Frame {
	f := metabolomicLRRK2(files, true)
	if f.Empty() {
		return f
	}
	keep := []string{SubjectColumn, EventColumn}
	for _, c := range pivotCarryColumns {
		if f.HasColumn(c) {
			keep = append(keep, c)
		}
	}
	found := false
	for _, col := range f.Columns() {
		if strings.HasPrefix(col, "LRRK2_") && strings.Contains(col, "_CSF_") {
			keep = append(keep, col)
			found = true
		}
	}
	if !found {
		return f
	}
	return f.Select(keep...)
}

// npxMetrics are the wide metrics shared by the Olink-style panels.
var npxMetrics = []metricColumn{
	{Column: "MISSINGFREQ", Short: "MISSINGFREQ"},
	{Column: "LOD", Short: "LOD"},
	{Column: "NPX", Short: "NPX"},
}

func proteomicProject(files []string, filePrefix, colPrefix string) *frame.Frame {
	frames := readMatching(files, func(base string) bool {
		return strings.HasPrefix(base, filePrefix)
	})
	if len(frames) == 0 {
		zap.L().Warn("no files found", zap.String("prefix", filePrefix))
		return frame.New()
	}
	return collectMetrics([]metricGroup{{
		frames:  frames,
		prefix:  colPrefix,
		columns: []string{"UNIPROT", "ASSAY", "MISSINGFREQ", "LOD", "NPX"},
		test:    uniprotAssay,
		metrics: npxMetrics,
	}}, colPrefix)
}

// project196 combines two file families: NPX files shaped like the
// other proteomics panels, and Counts files carrying raw and control
// counts.
func project196(files []string) *frame.Frame {
	npx := readMatching(files, func(base string) bool {
		return strings.HasPrefix(base, "PPMI_Project_196") && strings.Contains(base, "NPX")
	})
	counts := readMatching(files, func(base string) bool {
		return strings.HasPrefix(base, "PPMI_Project_196") && strings.Contains(base, "Counts")
	})
	if len(npx) == 0 && len(counts) == 0 {
		zap.L().Warn("no files found", zap.String("prefix", "PPMI_Project_196"))
		return frame.New()
	}
	zap.L().Info("found project 196 files",
		zap.Int("npx_files", len(npx)), zap.Int("counts_files", len(counts)))
	return collectMetrics([]metricGroup{
		{
			frames:  npx,
			prefix:  "196",
			columns: []string{"UNIPROT", "ASSAY", "MISSINGFREQ", "LOD", "NPX"},
			test:    uniprotAssay,
			metrics: npxMetrics,
		},
		{
			frames:  counts,
			prefix:  "196",
			columns: []string{"UNIPROT", "ASSAY", "COUNT", "INCUBATIONCONTROLCOUNT", "AMPLIFICATIONCONTROLCOUNT", "EXTENSIONCONTROLCOUNT"},
			test:    uniprotAssay,
			metrics: []metricColumn{
				{Column: "COUNT", Short: "COUNT"},
				{Column: "INCUBATIONCONTROLCOUNT", Short: "INCUB"},
				{Column: "AMPLIFICATIONCONTROLCOUNT", Short: "AMP"},
				{Column: "EXTENSIONCONTROLCOUNT", Short: "EXT"},
			},
		},
	}, Project196)
}

// project214 is shaped like the other Olink panels but some of its
// files spell MISSINGFREQ with an underscore.
func project214(files []string) *frame.Frame {
	frames := readMatching(files, func(base string) bool {
		return strings.HasPrefix(base, "Project_214_Olink")
	})
	for _, f := range frames {
		if f.HasColumn("MISSING_FREQ") && !f.HasColumn("MISSINGFREQ") {
			f.Rename("MISSING_FREQ", "MISSINGFREQ")
		}
	}
	if len(frames) == 0 {
		zap.L().Warn("no files found", zap.String("prefix", "Project_214_Olink"))
		return frame.New()
	}
	return collectMetrics([]metricGroup{{
		frames:  frames,
		prefix:  "214",
		columns: []string{"UNIPROT", "ASSAY", "MISSINGFREQ", "LOD", "NPX"},
		test:    uniprotAssay,
		metrics: npxMetrics,
	}}, Project214)
}

// bloodChemistry spreads lab panel rows into wide columns named after
// the test code and name, carrying the result and its reference range.
func bloodChemistry(files []string) *frame.Frame {
	frames := readMatching(files, func(base string) bool {
		return strings.HasPrefix(base, "Blood_Chemistry___Hematology")
	})
	if len(frames) == 0 {
		zap.L().Warn("no files found", zap.String("prefix", "Blood_Chemistry___Hematology"))
		return frame.New()
	}
	return collectMetrics([]metricGroup{{
		frames:  frames,
		prefix:  "BCH",
		columns: []string{"LTSTCODE", "LTSTNAME", "LSIRES", "LSILORNG", "LSIHIRNG"},
		test: func(f *frame.Frame, r int) string {
			code := strings.TrimSpace(f.Value(r, "LTSTCODE").String())
			name := strings.ReplaceAll(strings.TrimSpace(f.Value(r, "LTSTNAME").String()), " ", "_")
			return code + "_" + name
		},
		metrics: []metricColumn{
			{Column: "LSIRES", Short: "LSIRES"},
			{Column: "LSILORNG", Short: "LSILORNG"},
			{Column: "LSIHIRNG", Short: "LSIHIRNG"},
		},
	}}, BloodChemistry)
}
