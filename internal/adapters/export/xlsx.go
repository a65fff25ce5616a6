// Package export renders registry listings as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"eac-registry/internal/adapters/persistence/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetMembers       = "Members"
	SheetOrganizations = "Organizations"

	dateLayout = "2006-01-02"
)

var (
	memberHeader       = []interface{}{"Membership Number", "Full Name", "Email", "Member Type", "Status", "Registered", "Expires", "Application"}
	organizationHeader = []interface{}{"Registration Number", "Legal Name", "Trading Name", "Company Number", "Business Type", "PREA", "Directors", "Status", "Registered", "Expires", "Application"}
)

// RegistryWorkbook writes members and organizations to one xlsx file
func RegistryWorkbook(members []*models.Member, orgs []*models.Organization, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetMembers); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetOrganizations); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(members))
	for _, m := range members {
		rows = append(rows, []interface{}{
			m.MembershipNumber, m.FullName, m.Email, m.MemberType, m.Status,
			m.RegisteredAt.Format(dateLayout), m.ExpiresAt.Format(dateLayout), m.ApplicationID,
		})
	}
	if err := writeSheet(f, SheetMembers, memberHeader, rows, bold); err != nil {
		return nil, err
	}

	rows = make([][]interface{}, 0, len(orgs))
	for _, o := range orgs {
		rows = append(rows, []interface{}{
			o.RegistrationNumber, o.LegalName, o.TradingName, o.CompanyNumber, o.BusinessType,
			o.PREAMemberNumber, o.DirectorCount, o.Status,
			o.RegisteredAt.Format(dateLayout), o.ExpiresAt.Format(dateLayout), o.ApplicationID,
		})
	}
	if err := writeSheet(f, SheetOrganizations, organizationHeader, rows, bold); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Estate Agents Council Register",
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
