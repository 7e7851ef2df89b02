package ports

import "io"

// Table planilla leída: encabezados en el orden del archivo y filas indexadas por encabezado.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// SheetParser lee un CSV o XLSX. El tipo se decide por la extensión de filename.
type SheetParser interface {
	Parse(filename string, r io.Reader) (*Table, error)
}
