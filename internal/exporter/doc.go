// Package exporter renders a season's Startgeld (entry fee) records into the
// documents a sailor hands in for reimbursement.
//
// The formatters are pure: records in, serialized document out. None of them
// validate their input; missing values degrade to Placeholder ("-") or, for
// BIC fields, BICNotProvided. Precondition checks such as "no records" or
// "no IBAN" belong to the caller.
//
//   - CSVWriter: ';' delimited export with UTF-8 BOM and German decimal comma
//   - SEPAGenerator: pain.001.001.03 credit transfer initiation
//   - PDFRenderer: the reimbursement application and the season statistics
//   - XLSXWriter: the records and statistics as a workbook
//
// Example usage:
//
//	gen := exporter.NewSEPAGenerator(exporter.SEPAOptions{})
//	xml, err := gen.Generate(payments, creditor)
//
//	csvw := exporter.NewCSVWriter(exporter.CSVOptions{}, logger)
//	err = csvw.WriteStartgeld(w, "2024", profile, records)
package exporter
