// Package excel converts tabular lyph models into the JSON form read by the
// assembler.
//
// # Workbooks
//
// A [Workbook] holds one [Sheet] per resource collection. A sheet is named
// after the collection it fills (lyphs, nodes, links, chains...); its first
// row names the fields and every further row describes one resource. The
// sheet named "main" holds a single row of properties of the model itself.
//
// Workbooks are read from an .xlsx file ([ReadXLSX]), a directory of CSV
// files ([ReadCSVDir]) or a JSON object of sheets ([ReadJSONSheets]).
//
// # Cell conversion
//
// Cells are converted by the schema type of their column:
//
//   - relationships: a single id, or a comma separated id list for
//     multi-valued fields
//   - numbers and booleans: parsed, "yes" and "no" are accepted
//   - arrays: comma separated, or a JSON array
//   - objects: JSON
//
// A few columns are read differently. assign holds directives written as
// "path {json}" and separated by semicolons. On the lyphs sheet the columns
// inner, radial1, outer and radial2 list the nodes hosted by that border
// segment. length and thickness accept a "min-max" range.
//
// Empty cells are skipped. Problems are reported to the [diag.Logger] and the
// offending cell is dropped.
package excel
