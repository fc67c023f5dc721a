package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"foodsafe_backend/internal/model"
	"foodsafe_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the training matrix verbatim for auditors; it adds
// no derived data of its own.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

var matrixHeader = []string{
	"Program Code", "Program Title", "Completed", "In Progress",
	"Last Attended", "Last Certificate Issued", "Last Quiz Score", "Last Quiz Passed",
}

func matrixCells(row model.TrainingMatrixRow) []string {
	cells := []string{
		row.ProgramCode,
		row.ProgramTitle,
		strconv.FormatBool(row.Completed),
		strconv.FormatBool(row.InProgress),
		"", "", "", "",
	}
	if row.LastAttendedAt != nil {
		cells[4] = row.LastAttendedAt.Format(util.TimeFormat)
	}
	if row.LastCertificateIssuedAt != nil {
		cells[5] = row.LastCertificateIssuedAt.Format(util.TimeFormat)
	}
	if row.LastQuizScore != nil {
		cells[6] = strconv.FormatFloat(*row.LastQuizScore, 'f', 1, 64)
	}
	if row.LastQuizPassed != nil {
		cells[7] = strconv.FormatBool(*row.LastQuizPassed)
	}
	return cells
}

// MatrixCSV streams the matrix as CSV.
func (s *ExportService) MatrixCSV(w io.Writer, rows []model.TrainingMatrixRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matrixHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(matrixCells(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MatrixXLSX builds a single-sheet workbook from the matrix.
func (s *ExportService) MatrixXLSX(rows []model.TrainingMatrixRow) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Training Matrix"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, h := range matrixHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, v := range matrixCells(row) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// ExportFilename names the download after the user and format.
func ExportFilename(userID uint, format string) string {
	return fmt.Sprintf("training-matrix-%d.%s", userID, format)
}
