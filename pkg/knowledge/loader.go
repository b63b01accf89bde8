package knowledge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadOverlays merges region-specific rows over the built-in tables:
// calendar stages from a CSV, pest records from an XLSX workbook. Either
// path may be empty. Bad rows are skipped, a missing pest file is only a
// warning for the caller.
func (e *Engine) LoadOverlays(calendarCSV, pestXLSX string) error {
	if calendarCSV != "" {
		if err := e.loadCalendarCSV(calendarCSV); err != nil {
			return err
		}
	}
	if pestXLSX != "" {
		_ = e.loadPestXLSX(pestXLSX)
	}
	return nil
}

func (e *Engine) loadCalendarCSV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	head, err := cr.Read()
	if err != nil {
		return err
	}

	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF") // BOM
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "-", "")
		s = strings.ReplaceAll(s, "_", "")
		return s
	}
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cCrop := findAny("Crop", "crop_name")
	cSeason := findAny("Season")
	cStage := findAny("Stage", "phase")
	cStart := findAny("Start", "start_mmdd", "from")
	cEnd := findAny("End", "end_mmdd", "to")
	cAdvice := findAny("Advice", "recommendation", "notes", "tips")

	if cCrop == -1 || cSeason == -1 || cStage == -1 || cStart == -1 || cEnd == -1 {
		return fmt.Errorf("calendar CSV missing required columns, found headers: %v", head)
	}

	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		crop := strings.ToLower(get(cCrop))
		season := Season(strings.ToLower(get(cSeason)))
		stage := StageWindow{Name: get(cStage), Start: get(cStart), End: get(cEnd), Advice: get(cAdvice)}
		if crop == "" || season == "" || stage.Name == "" || mmdd(stage.Start) < 0 || mmdd(stage.End) < 0 {
			continue // skip invalid rows
		}
		entry, ok := e.calendars[crop]
		if !ok {
			entry = CropCalendarEntry{Crop: crop, Seasons: map[Season][]StageWindow{}}
		}
		if entry.Seasons == nil {
			entry.Seasons = map[Season][]StageWindow{}
		}
		entry.Seasons[season] = append(entry.Seasons[season], stage)
		e.calendars[crop] = entry
	}
	return nil
}

func (e *Engine) loadPestXLSX(path string) error {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer x.Close()

	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return err
	}
	split := func(s string) []string {
		var out []string
		for _, p := range strings.Split(s, ";") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	// Expected columns: Crop | Pest | Scientific name | Type | Severity |
	// Season | Symptoms | Treatment | Prevention (cells ;-separated).
	for i, row := range rows {
		if i == 0 || len(row) < 6 {
			continue
		}
		get := func(idx int) string {
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		crop := strings.ToLower(get(0))
		rec := PestRecord{
			Name:           get(1),
			ScientificName: get(2),
			Type:           strings.ToLower(get(3)),
			Severity:       Severity(strings.ToLower(get(4))),
			Season:         Season(strings.ToLower(get(5))),
			Symptoms:       split(get(6)),
			Treatment:      split(get(7)),
			Prevention:     split(get(8)),
		}
		if crop == "" || rec.Name == "" {
			continue
		}
		if rec.Season == "" {
			rec.Season = SeasonAll
		}
		e.pests[crop] = append(e.pests[crop], rec)
	}
	return nil
}
