package reporting

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// ExcelContentType is the MIME type of the workbook ExcelReport produces.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sheetData struct {
	name    string
	headers []string
	rows    [][]interface{}
}

// ExcelReport exports every record of one animal type as an xlsx workbook with
// a Summary sheet followed by one sheet per record kind.
func (s *Service) ExcelReport(animalTypeID string) ([]byte, error) {
	at, err := s.animalType(animalTypeID)
	if err != nil {
		return nil, err
	}
	rs := s.store.Records().ForAnimalType(at.ID)

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sheets := append([]sheetData{summarySheet(at, rs)}, recordSheets(rs)...)
	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.name); err != nil {
				return nil, fmt.Errorf("rename default sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh sheetData, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.headers); err != nil {
		return fmt.Errorf("write %s headers: %w", sh.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style %s headers: %w", sh.name, err)
	}

	for i := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &sh.rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sh.name, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(sh.headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sh.name, "A", lastCol, 16); err != nil {
		return fmt.Errorf("size %s columns: %w", sh.name, err)
	}
	return f.SetPanes(sh.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func summarySheet(at models.AnimalType, rs models.RecordSet) sheetData {
	sh := sheetData{name: "Summary", headers: []string{"Field", "Value"}}
	sh.rows = append(sh.rows,
		[]interface{}{"Animal type", at.Name},
		[]interface{}{"Features", fmt.Sprint(at.Features)},
	)
	for _, kind := range models.RecordKinds {
		sh.rows = append(sh.rows, []interface{}{string(kind) + " records", rs.Count(kind)})
	}
	return sh
}

func recordSheets(rs models.RecordSet) []sheetData {
	animals := sheetData{name: "Animals", headers: []string{"ID", "Name", "Tag", "Breed", "Gender", "Status", "Birth date", "Acquired", "Weight", "Sire", "Dam", "Notes"}}
	for _, r := range rs.Animals {
		animals.rows = append(animals.rows, []interface{}{r.ID, r.Name, r.TagNumber, r.Breed, r.Gender, string(r.Status), r.BirthDate, r.Date, r.Weight, r.SireID, r.DamID, r.Notes})
	}

	health := sheetData{name: "Health", headers: []string{"ID", "Date", "Type", "Description", "Veterinarian", "Medication", "Cost", "Notes"}}
	for _, r := range rs.Health {
		health.rows = append(health.rows, []interface{}{r.ID, r.Date, string(r.RecordType), r.Description, r.Veterinarian, r.Medication, r.Cost, r.Notes})
	}

	breeding := sheetData{name: "Breeding", headers: []string{"ID", "Date", "Event", "Female", "Male", "Expected due", "Offspring", "Notes"}}
	for _, r := range rs.Breeding {
		due, offspring := "", ""
		if r.ExpectedDueDate != nil {
			due = *r.ExpectedDueDate
		}
		if r.OffspringCount != nil {
			offspring = strconv.Itoa(*r.OffspringCount)
		}
		breeding.rows = append(breeding.rows, []interface{}{r.ID, r.Date, string(r.EventType), r.FemaleID, r.MaleID, due, offspring, r.Notes})
	}

	feed := sheetData{name: "Feed", headers: []string{"ID", "Date", "Feed type", "Quantity", "Unit", "Cost", "Notes"}}
	for _, r := range rs.Feed {
		feed.rows = append(feed.rows, []interface{}{r.ID, r.Date, r.FeedType, r.Quantity, r.Unit, r.Cost, r.Notes})
	}

	inventory := sheetData{name: "Inventory", headers: []string{"ID", "Date", "Action", "Quantity", "Reason", "Notes"}}
	for _, r := range rs.Inventory {
		inventory.rows = append(inventory.rows, []interface{}{r.ID, r.Date, string(r.Action), r.Quantity, r.Reason, r.Notes})
	}

	production := sheetData{name: "Production", headers: []string{"ID", "Date", "Product", "Quantity", "Unit", "Quality", "Notes"}}
	for _, r := range rs.Production {
		production.rows = append(production.rows, []interface{}{r.ID, r.Date, r.ProductType, r.Quantity, r.Unit, r.Quality, r.Notes})
	}

	return []sheetData{animals, health, breeding, feed, inventory, production}
}
