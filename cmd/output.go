package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/project-recommender/internal/pipeline"
	"github.com/spigell/project-recommender/internal/ranking"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

const emptyCell = "-"

// pageView is the json shape of one page of results.
type pageView struct {
	Skills          []string                  `json:"skills"`
	Total           int                       `json:"total"`
	Page            int                       `json:"page"`
	Pages           int                       `json:"pages"`
	PageSize        int                       `json:"page_size"`
	Recommendations []*ranking.Recommendation `json:"recommendations"`
}

func newPageView(res *pipeline.Result) pageView {
	items := res.Items
	if items == nil {
		items = []*ranking.Recommendation{}
	}
	return pageView{
		Skills:          res.Skills,
		Total:           res.Total,
		Page:            res.Page,
		Pages:           res.Pages(),
		PageSize:        res.PageSize,
		Recommendations: items,
	}
}

func checkOutputFormat(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected %s or %s)", format, outputTable, outputJSON)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeResult prints a page as a table or as json.
func writeResult(w io.Writer, format string, res *pipeline.Result) error {
	if format == outputJSON {
		return writeJSON(w, newPageView(res))
	}

	fmt.Fprintf(w, "Your skills: %s\n", joinOrDash(res.Skills))
	if res.Total == 0 {
		fmt.Fprintln(w, "No projects left to recommend.")
		return nil
	}

	fmt.Fprintf(w, "Page %d of %d (%d projects)\n\n", res.Page, res.Pages(), res.Total)
	return writeTable(w, res.Items, (res.Page-1)*res.PageSize)
}

// writeTable prints recs numbered from offset+1.
func writeTable(w io.Writer, recs []*ranking.Recommendation, offset int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tPROJECT\tMATCH\tSIMILARITY\tMATCHING SKILLS\tMISSING SKILLS")
	for i, rec := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f\t%s\t%s\n",
			offset+i+1,
			rec.ProjectName,
			rec.MatchingCount,
			rec.SimilarityScore,
			joinOrDash(rec.MatchingSkills),
			joinOrDash(rec.MissingSkills),
		)
	}

	return tw.Flush()
}

func writeSkills(w io.Writer, format string, skills []string) error {
	if format == outputJSON {
		if skills == nil {
			skills = []string{}
		}
		return writeJSON(w, skills)
	}

	if len(skills) == 0 {
		fmt.Fprintln(w, "No skills found.")
		return nil
	}
	for _, skill := range skills {
		fmt.Fprintln(w, skill)
	}
	return nil
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return emptyCell
	}
	return strings.Join(values, ", ")
}
