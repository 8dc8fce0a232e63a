// Package report renders a region analysis for people and for other tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/daynight/internal/model"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", eris.Errorf("report: unknown format %q (want text, json, yaml or xlsx)", s)
	}
}

// Write renders res to w in the given format.
func Write(w io.Writer, f Format, res *model.RegionAnalysis) error {
	switch f {
	case FormatText:
		return Text(w, res)
	case FormatJSON:
		return JSON(w, res)
	case FormatYAML:
		return YAML(w, res)
	case FormatXLSX:
		return XLSX(w, res)
	default:
		return eris.Errorf("report: unknown format %q", f)
	}
}

// JSON writes res as indented JSON.
func JSON(w io.Writer, res *model.RegionAnalysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(res), "report: encode json")
}

// YAML writes res as block-style YAML with the same keys and key order as
// the JSON form.
func YAML(w io.Writer, res *model.RegionAnalysis) error {
	data, err := json.Marshal(res)
	if err != nil {
		return eris.Wrap(err, "report: marshal")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return eris.Wrap(err, "report: json to yaml")
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: flush yaml")
}

// blockStyle drops the flow and quoting styles JSON input leaves on nodes.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Text writes the per-station day/night/difference lines followed by the
// region summary.
func Text(w io.Writer, res *model.RegionAnalysis) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Region: %s\n", res.Region.Name)
	fmt.Fprintf(&b, "Period: %s .. %s\n", res.DateRange.Start, res.DateRange.End)
	fmt.Fprintf(&b, "Stations analysed: %d\n\n", len(res.Stations))

	for _, st := range res.Stations {
		a := st.Analysis
		fmt.Fprintf(&b, "%s (ID: %d)\n", st.Name, st.StationID)
		fmt.Fprintf(&b, "  DAY:   %s  (%d samples)\n", temp(a.AvgTempDay, 6), a.DayMeasurements)
		fmt.Fprintf(&b, "  NIGHT: %s  (%d samples)\n", temp(a.AvgTempNight, 6), a.NightMeasurements)
		fmt.Fprintf(&b, "  DIFF:  %s\n\n", temp(a.Difference, 6))
	}

	s := res.Summary
	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "Average DAY:   %s (from %d samples)\n", temp(s.AvgTempDay, 0), s.DayMeasurements)
	fmt.Fprintf(&b, "Average NIGHT: %s (from %d samples)\n", temp(s.AvgTempNight, 0), s.NightMeasurements)
	fmt.Fprintf(&b, "Difference:    %s\n", temp(s.Difference, 0))

	_, err := w.Write(b.Bytes())
	return eris.Wrap(err, "report: write text")
}

func temp(v *float64, width int) string {
	if v == nil {
		return fmt.Sprintf("%*s", width, "n/a")
	}
	return fmt.Sprintf("%*.2f°C", width, *v)
}

var xlsxHeader = []string{
	"station_id", "name", "lon", "lat",
	"avg_temp_day", "day_measurements",
	"avg_temp_night", "night_measurements",
	"difference",
}

// XLSX writes a workbook with a Stations sheet (one row per station plus a
// SUMMARY row) and a Region sheet holding the region block.
func XLSX(w io.Writer, res *model.RegionAnalysis) error {
	f := xlsx.NewFile()

	sheet, err := f.AddSheet("Stations")
	if err != nil {
		return eris.Wrap(err, "report: add stations sheet")
	}
	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}
	for _, st := range res.Stations {
		row := sheet.AddRow()
		row.AddCell().SetInt64(st.StationID)
		row.AddCell().SetString(st.Name)
		row.AddCell().SetFloat(st.Coordinates.Lon)
		row.AddCell().SetFloat(st.Coordinates.Lat)
		statCells(row, st.Analysis)
	}
	total := sheet.AddRow()
	total.AddCell().SetString("")
	total.AddCell().SetString("SUMMARY")
	total.AddCell().SetString("")
	total.AddCell().SetString("")
	statCells(total, res.Summary)

	region, err := f.AddSheet("Region")
	if err != nil {
		return eris.Wrap(err, "report: add region sheet")
	}
	for _, kv := range [][2]string{
		{"id", fmt.Sprint(res.Region.ID)},
		{"name", res.Region.Name},
		{"start", res.DateRange.Start},
		{"end", res.DateRange.End},
	} {
		row := region.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	return eris.Wrap(f.Write(w), "report: write xlsx")
}

func statCells(row *xlsx.Row, s model.DayNightStats) {
	optFloat(row.AddCell(), s.AvgTempDay)
	row.AddCell().SetInt(s.DayMeasurements)
	optFloat(row.AddCell(), s.AvgTempNight)
	row.AddCell().SetInt(s.NightMeasurements)
	optFloat(row.AddCell(), s.Difference)
}

// optFloat leaves the cell blank for undefined values.
func optFloat(c *xlsx.Cell, v *float64) {
	if v == nil {
		c.SetString("")
		return
	}
	c.SetFloat(*v)
}
