package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/term"

	"produce-grader/internal/domain/entity"
)

const (
	outputAuto  = "auto"
	outputTable = "table"
	outputJSON  = "json"
)

var gradeColors = map[entity.Grade]*color.Color{
	entity.GradeA: color.New(color.FgGreen, color.Bold),
	entity.GradeB: color.New(color.FgCyan),
	entity.GradeC: color.New(color.FgYellow),
	entity.GradeD: color.New(color.FgRed, color.Bold),
}

var errColor = color.New(color.FgRed)

// resolveOutput выбирает формат: auto даёт таблицу в терминале и JSON в конвейере.
func resolveOutput(format string, w io.Writer) (string, error) {
	switch format {
	case outputTable, outputJSON:
		return format, nil
	case outputAuto, "":
		if isTerminal(w) {
			return outputTable, nil
		}
		return outputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want auto, table or json)", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type fileOutput struct {
	File       string                    `json:"file"`
	Assessment *entity.QualityAssessment `json:"assessment,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

type assessOutput struct {
	RequestID      string       `json:"request_id"`
	Results        []fileOutput `json:"results"`
	ProcessingTime float64      `json:"processing_time"`
	Timestamp      string       `json:"timestamp"`
}

func newAssessOutput(batch *entity.BatchResult, files []string) assessOutput {
	out := assessOutput{
		RequestID:      batch.RequestID,
		Results:        make([]fileOutput, 0, len(batch.Items)),
		ProcessingTime: batch.ProcessingTimeSeconds,
		Timestamp:      batch.TimestampUTC,
	}
	for _, item := range batch.Items {
		fo := fileOutput{File: files[item.Index], Assessment: item.Assessment}
		if item.Err != nil {
			fo.Error = item.Err.Error()
		}
		out.Results = append(out.Results, fo)
	}
	return out
}

// writeAssessTable печатает по строке на файл в исходном порядке.
func writeAssessTable(w io.Writer, out assessOutput) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"File", "Grade", "Score", "Confidence", "Price", "Defects"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, r := range out.Results {
		if r.Assessment == nil {
			data = append(data, []string{r.File, errColor.Sprint("error"), "-", "-", "-", errColor.Sprint(r.Error)})
			continue
		}
		a := r.Assessment
		data = append(data, []string{
			r.File,
			gradeLabel(a.Grade),
			fmt.Sprintf("%.1f", a.QualityScore),
			fmt.Sprintf("%.1f%%", a.ConfidenceScore),
			fmt.Sprintf("%+.0f%%", a.PriceAdjustmentPercentage),
			defectList(a.Defects),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "request %s, %.2fs\n", out.RequestID, out.ProcessingTime)
	return err
}

func gradeLabel(g entity.Grade) string {
	if c, ok := gradeColors[g]; ok {
		return c.Sprint(string(g))
	}
	return string(g)
}

func defectList(defects []entity.Defect) string {
	if len(defects) == 0 {
		return "-"
	}
	names := make([]string, 0, len(defects))
	for _, d := range defects {
		names = append(names, fmt.Sprintf("%s (%.2f)", d.Type, d.Severity))
	}
	return strings.Join(names, ", ")
}

// writeModelInfoTable печатает описание модели парами ключ-значение.
func writeModelInfoTable(w io.Writer, info entity.ModelInfo) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	thresholds := make([]string, 0, len(info.QualityThresholds))
	for _, th := range info.QualityThresholds {
		thresholds = append(thresholds, fmt.Sprintf("%s>=%g", th.Grade, th.MinScore))
	}

	table.Header([]string{"Property", "Value"})
	data := [][]string{
		{"version", info.Version},
		{"device", info.Device},
		{"extractor", info.Extractor},
		{"scorer", info.ScorerMode},
		{"supported formats", strings.Join(info.SupportedFormats, " ")},
		{"grade thresholds", strings.Join(thresholds, " ")},
		{"max image size", fmt.Sprintf("%d", info.MaxImageSize)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
