package testkit

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Fixture builders shared by the package tests. Datasets are small but shaped
// like real exports: noisy title rows, mixed casing, padding rows, serial
// date cells.

// TemplateHTML is a converted-document template with one token per semantic
// category plus a generic one.
func TemplateHTML() string {
	return `<html><body>
<p>Dear [Customer Name],</p>
<p>Your policy [Policy Number] expires on [Expiration Date].</p>
<p>Call us at [Customer Phone Number] or reply to [Email Address].</p>
</body></html>`
}

// ContactCSV returns a well-formed comma-delimited dataset whose headers line
// up with TemplateHTML's tokens to varying degrees.
func ContactCSV() []byte {
	return []byte(`Customer Name,Email,Mobile,Expiration_Date,Policy Number
JOHN MCDONALD,John.McDonald@Example.COM,7725551234,3/15/2024,P-1001
sarah o'brien,sarah@example.org,17725559876,4/1/2024,P-1002
`)
}

// ContactXLSX builds a spreadsheet export the way office tools actually emit
// them: a two-row title block before the real header, a near-empty padding
// row, a raw serial number in the date column, and a second sparsely
// populated sheet that must lose the sheet-selection contest.
func ContactXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Contacts"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{"ACME Insurance"},
		{"Renewal campaign export"},
		{"Customer Name", "Email", "Mobile", "Expiration_Date", "Policy Number"},
		{"JOHN MCDONALD", "John.McDonald@Example.COM", "7725551234", 45000, "P-1001"},
		{"sarah o'brien", "sarah@example.org", "17725559876", 45017, "P-1002"},
		{"", "", "note", "", ""},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	// Decoy sheet with fewer rows than the contact sheet.
	if _, err := f.NewSheet("Notes"); err != nil {
		return nil, err
	}
	decoy := []interface{}{"internal", "notes"}
	if err := f.SetSheetRow("Notes", "A1", &decoy); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
