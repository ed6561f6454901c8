// Package exporter writes pipeline output to files on request.
//
// CSVWriter streams the analytical table to a UTF-8 CSV with a BOM so
// spreadsheet tools pick the right encoding. WorkbookWriter saves a report as
// an XLSX workbook with one sheet per view.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(logger)
//	err := w.WriteAnalyticalTable("out/analytical.csv", table.Rows)
//
//	wb := exporter.NewWorkbookWriter(logger)
//	err = wb.WriteReport("out/report.xlsx", report)
package exporter
