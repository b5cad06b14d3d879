// CLAUDE:SUMMARY XLSX export of stored applications with parsed profile summary columns.
// Package export produces XLSX workbooks from stored applications.
//
// The export is write-only with fixed columns; spreadsheet schema
// management is out of scope.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hazyhaar/cvpipe/cvparse"
	"github.com/hazyhaar/cvpipe/internal/store"
)

// Service is a small façade over the store that produces XLSX bytes.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates an export service.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, logger: logger}
}

// ApplicationsXLSX returns an XLSX workbook with one row per stored
// application, newest first.
func (s *Service) ApplicationsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	apps, err := s.store.ListApplications(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Applications"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// Drop the default sheet excelize creates.
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Received",
		"Name",
		"Email",
		"Phone",
		"Timezone",
		"CV File",
		"Education",
		"Qualifications",
		"Projects",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, app := range apps {
		profile := decodeProfile(app.ProfileJSON)

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, time.UnixMilli(app.ReceivedAt).UTC().Format("2006-01-02 15:04"))
		write(2, app.Name)
		write(3, app.Email)
		write(4, app.Phone)
		write(5, app.Timezone)
		write(6, app.CVFileName)
		write(7, truncate(strings.Join(profile.Education, "; "), 200))
		write(8, truncate(qualificationSummary(profile), 200))
		write(9, truncate(projectSummary(profile), 200))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 17) // received
	_ = f.SetColWidth(sheet, "B", "B", 22) // name
	_ = f.SetColWidth(sheet, "C", "C", 28) // email
	_ = f.SetColWidth(sheet, "G", "I", 40) // profile summaries

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export: applications workbook",
		"rows", len(apps), "bytes", buf.Len(), "elapsed", time.Since(start))
	return buf.Bytes(), nil
}

// decodeProfile tolerates malformed stored JSON. The row still exports with
// the columns persisted on the application itself.
func decodeProfile(raw string) *cvparse.Profile {
	var p cvparse.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return &cvparse.Profile{}
	}
	return &p
}

func qualificationSummary(p *cvparse.Profile) string {
	parts := make([]string, 0, len(p.Qualifications))
	for _, q := range p.Qualifications {
		parts = append(parts, fmt.Sprintf("%s (%s)", q.Skill, q.Category))
	}
	return strings.Join(parts, "; ")
}

func projectSummary(p *cvparse.Profile) string {
	parts := make([]string, 0, len(p.Projects))
	for _, pr := range p.Projects {
		parts = append(parts, pr.Name)
	}
	return strings.Join(parts, "; ")
}

// truncate counts runes, not bytes; profile text is user-supplied UTF-8
// and a byte slice could split a multibyte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
